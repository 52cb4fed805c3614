package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundtruth/insight-engine/internal/table"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func defaultEncodings() []string {
	return []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}
}

func TestDecode_OrderedFallback(t *testing.T) {
	// Valid UTF-8 resolves on the first strategy.
	s, enc, err := Decode([]byte("hello"), defaultEncodings())
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, "utf-8", enc)

	// 0xE9 is é in latin-1 but invalid UTF-8, so the second strategy wins.
	s, enc, err = Decode([]byte{'c', 'a', 'f', 0xE9}, defaultEncodings())
	require.NoError(t, err)
	assert.Equal(t, "café", s)
	assert.Equal(t, "latin-1", enc)
}

func TestDecode_NoCandidates(t *testing.T) {
	_, _, err := Decode([]byte{0xFF}, []string{"utf-8"})
	assert.True(t, eris.Is(err, ErrDecoding))
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ads.csv", []byte("date,Clicks,Region\n2024-01-01,50,north\n2024-01-02,70,south\n"))

	tb, err := New(defaultEncodings()).ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tb.NumRows())
	assert.Equal(t, []string{"date", "Clicks", "Region"}, tb.Names())

	f, ok := tb.Cell(0, "Clicks").Float()
	require.True(t, ok)
	assert.Equal(t, 50.0, f)
	assert.Equal(t, table.KindString, tb.Cell(0, "Region").Kind())
}

func TestReadCSV_Latin1(t *testing.T) {
	dir := t.TempDir()
	// "Región" with latin-1 ó
	data := append([]byte("Regi"), 0xF3)
	data = append(data, []byte("n\nnorte\n")...)
	path := writeFile(t, dir, "latin.csv", data)

	tb, err := New(defaultEncodings()).ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Región"}, tb.Names())
	assert.Equal(t, 1, tb.NumRows())
}

func TestReadCSV_RaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ragged.csv", []byte("a,b,c\n1,2\n3,4,5,6\n"))

	tb, err := New(defaultEncodings()).ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tb.NumRows())
	assert.True(t, tb.Cell(0, "c").IsNull())
}

func TestReadJSON_Array(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "recs.json", []byte(`[{"id":1,"region":"north"},{"id":2,"region":"south"}]`))

	tb, err := New(defaultEncodings()).ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tb.NumRows())
	assert.True(t, tb.Has("id"))
	assert.True(t, tb.Has("region"))
}

func TestReadJSON_DataKey(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wrapped.json", []byte(`{"data":[{"clicks":10},{"clicks":20}]}`))

	tb, err := New(defaultEncodings()).ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tb.NumRows())
}

func TestReadJSON_BareObject(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "single.json", []byte(`{"clicks":10,"region":"west"}`))

	tb, err := New(defaultEncodings()).ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tb.NumRows())
}

func TestReadJSON_UnsupportedShape(t *testing.T) {
	dir := t.TempDir()

	for _, doc := range []string{`42`, `"scalar"`, `[1,2,3]`} {
		path := writeFile(t, dir, "bad.json", []byte(doc))
		_, err := New(defaultEncodings()).ReadJSON(path)
		assert.True(t, eris.Is(err, ErrUnsupportedShape), doc)
	}
}

func TestReadFile_Dispatch(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "a.csv", []byte("x\n1\n"))
	r := New(defaultEncodings())

	tb, err := r.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, tb.NumRows())

	_, err = r.ReadFile(filepath.Join(dir, "a.xlsx"))
	assert.Error(t, err)
}
