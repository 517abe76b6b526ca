package biotypes_test

import (
	"bytes"
	"context"
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/grailbio/bioqc/biotypes"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func newCorpus(samples ...string) *biotypes.Corpus {
	c := biotypes.NewCorpus()
	for i := 0; i+1 < len(samples); i += 2 {
		c.Add(samples[i], biotypes.ParseString(samples[i+1]))
	}
	return c
}

func sum(m map[string]float64) float64 {
	var s float64
	for _, v := range m {
		s += v
	}
	return s
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := biotypes.Normalize(biotypes.NewCorpus())
	assert.Equal(t, biotypes.ErrNoData, err)
	_, err = biotypes.Normalize(nil)
	assert.Equal(t, biotypes.ErrNoData, err)
}

func TestNormalizeFullView(t *testing.T) {
	c := newCorpus("S1", "protein_coding\t100\nrRNA\t50\nmisc 30")
	v, err := biotypes.Normalize(c)
	require.NoError(t, err)

	want := map[string]float64{
		"protein_coding": 100.0 / 180 * 100,
		"rRNA":           50.0 / 180 * 100,
		"misc":           30.0 / 180 * 100,
	}
	if diff := cmp.Diff(want, v.Percent["S1"], cmpopts.EquateApprox(0, tolerance)); diff != "" {
		t.Errorf("percent view mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 55.56, v.Percent["S1"]["protein_coding"], 0.01)
	assert.InDelta(t, 27.78, v.Percent["S1"]["rRNA"], 0.01)
	assert.InDelta(t, 16.67, v.Percent["S1"]["misc"], 0.01)
	assert.InDelta(t, 100, sum(v.Percent["S1"]), tolerance)

	assert.Nil(t, v.NonSpike)
	assert.Equal(t, "", v.SpikeIn)
	assert.Equal(t, []string{"protein_coding", "rRNA", "misc"}, v.Headers)
	assert.True(t, v.Counts == c)
}

func TestNormalizeIdenticalSamples(t *testing.T) {
	text := "a 13\nb 7\nc 1001\n"
	v, err := biotypes.Normalize(newCorpus("X", text, "Y", text))
	require.NoError(t, err)
	assert.Equal(t, v.Percent["X"], v.Percent["Y"])
}

func TestNormalizeHeaderOrder(t *testing.T) {
	v, err := biotypes.Normalize(newCorpus(
		"S1", "b 1\na 1",
		"S2", "c 1\na 2\nd 3",
		"S3", "e 1\nb 9"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d", "e"}, v.Headers)
	for _, sample := range []string{"S1", "S2", "S3"} {
		assert.InDelta(t, 100, sum(v.Percent[sample]), tolerance)
	}
}

func TestNormalizeSpikeIn(t *testing.T) {
	v, err := biotypes.Normalize(newCorpus(
		"S1", "rRNA 5\nmRNA 10",
		"S2", "mRNA 90\nERCC 10"))
	require.NoError(t, err)
	assert.Equal(t, "ERCC", v.SpikeIn)
	assert.Equal(t, []string{"ERCC", "rRNA", "mRNA"}, v.Headers)
	require.NotNil(t, v.NonSpike)

	if diff := cmp.Diff(map[string]float64{"mRNA": 100}, v.NonSpike["S2"], cmpopts.EquateApprox(0, tolerance)); diff != "" {
		t.Errorf("non-spike view mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 90, v.Percent["S2"]["mRNA"], tolerance)
	assert.InDelta(t, 10, v.Percent["S2"]["ERCC"], tolerance)
	for sample, pct := range v.NonSpike {
		_, ok := pct["ERCC"]
		assert.False(t, ok, sample)
		assert.InDelta(t, 100, sum(pct), tolerance, sample)
	}
}

func TestNormalizeSpikeInAliases(t *testing.T) {
	for _, alias := range biotypes.SpikeInAliases {
		v, err := biotypes.Normalize(newCorpus("S", "x 3\n"+alias+" 1\ny 1"))
		require.NoError(t, err)
		assert.Equal(t, alias, v.SpikeIn)
		assert.Equal(t, []string{alias, "x", "y"}, v.Headers)
	}
	// Matching is case sensitive.
	v, err := biotypes.Normalize(newCorpus("S", "Spikein 3\nx 1"))
	require.NoError(t, err)
	assert.Nil(t, v.NonSpike)
}

func TestNormalizeAmbiguousSpikeIn(t *testing.T) {
	v, err := biotypes.Normalize(newCorpus(
		"S1", "x 1\nERCC 2",
		"S2", "spikein 3\ny 4"))
	require.NoError(t, err)
	assert.Nil(t, v.NonSpike)
	assert.Equal(t, "", v.SpikeIn)
	assert.Equal(t, []string{"x", "ERCC", "spikein", "y"}, v.Headers)
}

func TestNormalizeZeroTotal(t *testing.T) {
	v, err := biotypes.Normalize(newCorpus(
		"S1", "a 0\nb 0",
		"S2", "ercc 5\nc 0"))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0, "b": 0}, v.Percent["S1"])
	assert.Equal(t, map[string]float64{"c": 0}, v.NonSpike["S2"])
	assert.Equal(t, map[string]float64{"a": 0, "b": 0}, v.NonSpike["S1"])
	for _, view := range []biotypes.PercentView{v.Percent, v.NonSpike} {
		for _, pct := range view {
			for _, x := range pct {
				assert.False(t, math.IsNaN(x) || math.IsInf(x, 0))
			}
		}
	}
}

func TestNormalizeNearMaxInt64(t *testing.T) {
	v, err := biotypes.Normalize(newCorpus(
		"S1", "a 9223372036854775807\nb 1",
		"S2", "a 9223372036854775807\nb 9223372036854775807\nERCC 9223372036854775807"))
	require.NoError(t, err)
	assert.InDelta(t, 100, v.Percent["S1"]["a"], tolerance)
	assert.True(t, v.Percent["S1"]["b"] >= 0)
	for sample, pct := range v.Percent {
		assert.InDelta(t, 100, sum(pct), tolerance, sample)
	}
	assert.InDelta(t, 100.0/3, v.Percent["S2"]["ERCC"], tolerance)
	for sample, pct := range v.NonSpike {
		assert.InDelta(t, 100, sum(pct), tolerance, sample)
	}
	assert.InDelta(t, 50, v.NonSpike["S2"]["a"], tolerance)
	assert.InDelta(t, 3*float64(math.MaxInt64), v.Counts.Get("S2").Total(), 1e6)
}

func TestNormalizeEmptySample(t *testing.T) {
	v, err := biotypes.Normalize(newCorpus("S1", "nothing here", "S2", "a 1"))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{}, v.Percent["S1"])
	assert.Equal(t, []string{"a"}, v.Headers)
}

func TestDetectSpikeIn(t *testing.T) {
	_, ok := biotypes.DetectSpikeIn(nil)
	expect.False(t, ok)
	name, ok := biotypes.DetectSpikeIn([]string{"a", "spike-in", "b"})
	expect.True(t, ok)
	expect.EQ(t, name, "spike-in")
	_, ok = biotypes.DetectSpikeIn([]string{"ERCC", "ercc"})
	expect.False(t, ok)
}

func TestWriteTSV(t *testing.T) {
	c := newCorpus("S1", "a 1\nb 2", "S2", "b 3\nc 4")
	var buf bytes.Buffer
	require.NoError(t, biotypes.WriteTSV(&buf, c, c.Headers()))
	expect.EQ(t, buf.String(), "Sample\ta\tb\tc\nS1\t1\t2\t\nS2\t\t3\t4\n")
}

func TestWriteSourcesTSV(t *testing.T) {
	c := biotypes.NewCorpus()
	c.AddFrom("S1", "/data/S1_biotypes.txt", biotypes.ParseString("a 1"))
	c.Add("S2", biotypes.ParseString("a 2"))
	var buf bytes.Buffer
	require.NoError(t, biotypes.WriteSourcesTSV(&buf, c))
	expect.EQ(t, buf.String(), "Module\tSection\tSample Name\tSource\n"+
		"Biotypes\tall_sections\tS1\t/data/S1_biotypes.txt\n"+
		"Biotypes\tall_sections\tS2\t\n")
}

func TestWriteTSVFileGzip(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	c := newCorpus("S1", "a 1")
	path := filepath.Join(tmpdir, "multiqc_biotype.tsv.gz")
	require.NoError(t, biotypes.WriteTSVFile(context.Background(), path, c, c.Headers()))

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	got, err := ioutil.ReadAll(zr)
	require.NoError(t, err)
	expect.EQ(t, string(got), "Sample\ta\nS1\t1\n")
}
