package content

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/internal/hydrate"
)

func newTranslation(t *testing.T) *bible.Translation {
	t.Helper()
	tr, err := hydrate.Build(context.Background(), &hydrate.Dataset{
		Translation: "TEST",
		Books: []hydrate.BookRecord{
			{Number: 1, Name: "Genesis", Chapters: []int{3, 2}},
			{Number: 2, Name: "Exodus", Chapters: []int{2}},
		},
	})
	require.NoError(t, err)
	return tr
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const genesis = `# Genesis 1
1001001	In the beginning God created the heaven and the earth.
1001002	And the earth was without form, and void.

1001003	And God said, Let there be light: and there was light.
2001001	Now these are the names of the children of Israel.
`

func TestStoreImport(t *testing.T) {
	ctx := context.Background()
	tr := newTranslation(t)
	s := openStore(t)

	n, err := s.Import(ctx, tr, "abc", strings.NewReader(genesis))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	count, err := s.Count(ctx, "TEST")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	text, err := s.Text(ctx, Key{Translation: "TEST", Ordinal: 1001003})
	require.NoError(t, err)
	assert.Equal(t, "And God said, Let there be light: and there was light.", text)

	_, err = s.Text(ctx, Key{Translation: "TEST", Ordinal: 1002001})
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = s.Text(ctx, Key{Translation: "OTHER", Ordinal: 1001001})
	assert.ErrorIs(t, err, errors.ErrNotFound)

	fp, err := s.Fingerprint(ctx, "TEST")
	require.NoError(t, err)
	assert.Equal(t, "abc", fp)
}

func TestStoreImportErrors(t *testing.T) {
	tests := map[string]string{
		"no tab":          "1001001 In the beginning\n",
		"not a number":    "Gen.1.1\tIn the beginning\n",
		"unknown ordinal": "1001001\tIn the beginning\n1004001\tout of range\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := openStore(t)

			_, err := s.Import(ctx, newTranslation(t), "abc", strings.NewReader(body))
			var perr *errors.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "TSV", perr.Format)

			count, err := s.Count(ctx, "TEST")
			require.NoError(t, err)
			assert.Zero(t, count, "failed imports are rolled back")

			fp, err := s.Fingerprint(ctx, "TEST")
			require.NoError(t, err)
			assert.Empty(t, fp)
		})
	}
}

func TestStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	key := Key{Translation: "TEST", Ordinal: 1001001}

	require.NoError(t, s.Put(ctx, key, "first"))
	require.NoError(t, s.Put(ctx, key, "second"))

	text, err := s.Text(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	count, err := s.Count(ctx, "TEST")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStoreCheckFingerprint(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	ok, err := s.CheckFingerprint(ctx, "TEST", "abc")
	require.NoError(t, err)
	assert.True(t, ok, "nothing imported yet")

	_, err = s.Import(ctx, newTranslation(t), "abc", strings.NewReader(genesis))
	require.NoError(t, err)

	ok, err = s.CheckFingerprint(ctx, "TEST", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CheckFingerprint(ctx, "TEST", "def")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "content.db")
	key := Key{Translation: "TEST", Ordinal: 1001001}

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, key, "kept"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
	assert.True(t, strings.HasPrefix(s.Name(), "sqlite:"))

	text, err := s.Text(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "kept", text)
}

// countingSource serves "text <ordinal>" and counts calls.
type countingSource struct {
	calls atomic.Int32
	fail  bool
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Text(_ context.Context, key Key) (string, error) {
	s.calls.Add(1)
	if s.fail {
		return "", &errors.NotFoundError{Key: key.String()}
	}
	return "text " + key.String(), nil
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	c := NewCached(src, time.Minute)
	key := Key{Translation: "TEST", Ordinal: 1001001}

	for range 3 {
		text, err := c.Text(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "text TEST:1001001", text)
	}
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "counting", c.Name())

	c.Invalidate()
	_, err := c.Text(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{fail: true}
	c := NewCached(src, time.Minute)
	key := Key{Translation: "TEST", Ordinal: 1001001}

	_, err := c.Text(ctx, key)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = c.Text(ctx, key)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Equal(t, int32(2), src.calls.Load())
	assert.Zero(t, c.Len())
}

func TestVerseTextMemoises(t *testing.T) {
	ctx := context.Background()
	tr := newTranslation(t)
	src := &countingSource{}

	v, err := tr.Verse(1001002)
	require.NoError(t, err)
	_, ok := v.CachedText()
	require.False(t, ok)

	for range 2 {
		text, err := VerseText(ctx, src, v)
		require.NoError(t, err)
		assert.Equal(t, "text TEST:1001002", text)
	}
	assert.Equal(t, int32(1), src.calls.Load())

	cached, ok := v.CachedText()
	assert.True(t, ok)
	assert.Equal(t, "text TEST:1001002", cached)
}

func TestPassageText(t *testing.T) {
	ctx := context.Background()
	tr := newTranslation(t)
	s := openStore(t)
	_, err := s.Import(ctx, tr, "abc", strings.NewReader(genesis))
	require.NoError(t, err)

	p, err := tr.Resolve("Genesis 1:1-1:2")
	require.NoError(t, err)
	text, err := PassageText(ctx, s, p)
	require.NoError(t, err)
	assert.Equal(t,
		"In the beginning God created the heaven and the earth.\nAnd the earth was without form, and void.",
		text)

	p, err = tr.Resolve("Genesis 1:3-2:1")
	require.NoError(t, err)
	_, err = PassageText(ctx, s, p)
	assert.ErrorIs(t, err, errors.ErrNotFound, "Genesis 2:1 has no text")
}
