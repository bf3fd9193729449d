package bson_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/lazybson/lazybson/pkg/bson"
)

func openSingleDoc(t *testing.T, data []byte) *bson.Document {
	t.Helper()

	buf, err := bson.NewBuffer(data)
	require.NoError(t, err)
	t.Cleanup(func() { buf.Close() })

	doc, ok, err := buf.Iterate().Next()
	require.NoError(t, err)
	require.True(t, ok)

	return doc
}

// After exactly InflationThreshold-1 qualifying accesses the Document is
// still linear; the next one observes inflated=true.
func TestDocument_inflationThreshold(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1)))

	for i := 0; i < bson.InflationThreshold-1; i++ {
		_, err := doc.Get("a")
		require.NoError(t, err)
		require.False(t, doc.Inflated(), "call %d should not have inflated yet", i+1)
	}

	_, err := doc.Get("a")
	require.NoError(t, err)
	require.True(t, doc.Inflated())
}

func TestDocument_Get_missingKey(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1)))

	_, err := doc.Get("nope")
	require.Error(t, err)

	var keyErr *bson.KeyError
	require.True(t, errors.As(err, &keyErr))
	require.Equal(t, "nope", keyErr.Key)
	require.True(t, errors.Is(err, bson.ErrKey))
}

func TestDocument_Contains_neverErrorsOnMiss(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1)))

	ok, err := doc.Contains("a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = doc.Contains("nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDocument_Len_doesNotDoubleCount(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1), elInt32("b", 2), elInt32("c", 3)))

	for i := 0; i < bson.InflationThreshold-1; i++ {
		n, err := doc.Len()
		require.NoError(t, err)
		require.Equal(t, 3, n)
	}

	require.False(t, doc.Inflated())
}

// Keys and values agree before and after inflation for a never-mutated
// Document.
func TestDocument_keysAndValuesStableAcrossInflate(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1), elString("b", "hi")))

	keysBefore, err := doc.Keys()
	require.NoError(t, err)
	aBefore, err := doc.Get("a")
	require.NoError(t, err)
	bBefore, err := doc.Get("b")
	require.NoError(t, err)

	require.NoError(t, doc.Inflate())
	require.True(t, doc.Inflated())

	keysAfter, err := doc.Keys()
	require.NoError(t, err)
	aAfter, err := doc.Get("a")
	require.NoError(t, err)
	bAfter, err := doc.Get("b")
	require.NoError(t, err)

	require.True(t, cmp.Equal(keysBefore, keysAfter))
	require.Equal(t, aBefore, aAfter)
	require.Equal(t, bBefore, bAfter)
}

func TestDocument_Inflate_isIdempotent(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1)))

	require.NoError(t, doc.Inflate())
	require.NoError(t, doc.Inflate())
	require.True(t, doc.Inflated())
}

func TestDocument_Set_appendsNewKeysOncePreservesFirstSeenOrder(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1)))

	require.NoError(t, doc.Set("b", int32(2)))
	require.NoError(t, doc.Set("a", int32(99))) // existing key: no reorder

	keys, err := doc.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)

	v, err := doc.Get("a")
	require.NoError(t, err)
	require.Equal(t, int32(99), v)
}

func TestDocument_Set_forcesInflation(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1)))
	require.False(t, doc.Inflated())

	require.NoError(t, doc.Set("b", int32(2)))
	require.True(t, doc.Inflated())
}

func TestDocument_Delete_preservesRelativeOrderOfSurvivors(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1), elInt32("b", 2), elInt32("c", 3)))

	require.NoError(t, doc.Delete("b"))

	keys, err := doc.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, keys)
}

func TestDocument_Delete_missingKey(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1)))

	err := doc.Delete("nope")
	require.Error(t, err)
	require.True(t, errors.Is(err, bson.ErrKey))
}

// An unknown element tag discovered only during Inflate leaves the
// Document linear and unchanged.
func TestDocument_unknownTagDuringInflate_staysLinear(t *testing.T) {
	body := append([]byte{0x7F}, cstring("x")...)
	total := 4 + len(body) + 1
	raw := make([]byte, 4, total)
	raw[0] = byte(total)
	raw = append(raw, body...)
	raw = append(raw, 0x00)

	doc := openSingleDoc(t, raw)

	err := doc.Inflate()
	require.Error(t, err)
	require.True(t, errors.Is(err, bson.ErrBadInput))
	require.False(t, doc.Inflated())
}

func TestDocument_String_matchesIterationOrder(t *testing.T) {
	doc := openSingleDoc(t, buildDoc(elInt32("a", 1), elInt32("b", 2)))

	require.Equal(t, `{"a": 1, "b": 2}`, doc.String())
}

// The recursion guard tracks only the Documents on the current render path,
// so an ordinary nested Document is rendered in full, not as "{...}".
func TestDocument_String_recursionGuard(t *testing.T) {
	inner := buildDoc(elInt32("y", 7))
	doc := openSingleDoc(t, buildDoc(elDocument("x", inner)))

	require.Equal(t, `{"x": {"y": 7}}`, doc.String())
}
