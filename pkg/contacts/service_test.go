package contacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captaindpt/vcard-manager/pkg/cardcache"
	"github.com/captaindpt/vcard-manager/pkg/vcard"
	"github.com/captaindpt/vcard-manager/pkg/vcard/vcardtest"
)

func newTestService(t *testing.T) (*Service, *vcardtest.Library, *cardcache.Cache, string) {
	t.Helper()
	dir := t.TempDir()
	lib := vcardtest.NewLibrary()
	cache := cardcache.New(dir, lib)
	t.Cleanup(cache.Close)
	return NewService(lib, cache), lib, cache, dir
}

func TestCreate(t *testing.T) {
	svc, _, cache, dir := newTestService(t)

	require.NoError(t, svc.Create("alice", "Alice Example"))

	// Extension appended, file written, cache resynchronized.
	data, err := os.ReadFile(filepath.Join(dir, "alice.vcf"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FN:Alice Example")
	assert.Equal(t, []string{"alice.vcf"}, cache.List())
}

func TestCreate_RoundTrip(t *testing.T) {
	svc, lib, _, dir := newTestService(t)
	require.NoError(t, svc.Create("bob.vcf", "Bob"))

	// Create+validate on the written file both return OK.
	h, code := lib.Create(filepath.Join(dir, "bob.vcf"))
	require.Equal(t, vcard.OK, code)
	defer lib.Delete(h)
	assert.Equal(t, vcard.OK, lib.Validate(h))
	assert.Equal(t, "Bob", h.FormattedName())
}

func TestCreate_EmptyName(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.Error(t, svc.Create("a.vcf", "   "))
	assert.Error(t, svc.Create("", "Name"))
}

func TestCreate_PathTraversalRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.Error(t, svc.Create("../escape.vcf", "Name"))
	assert.Error(t, svc.Create("sub/dir.vcf", "Name"))
}

func TestCreate_ExistingFileRefused(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	require.NoError(t, svc.Create("a.vcf", "First"))
	assert.Error(t, svc.Create("a.vcf", "Second"))
}

func TestCreate_NativeRejectionSurfacesCode(t *testing.T) {
	svc, lib, cache, dir := newTestService(t)
	lib.FailCreate("bad.vcf", vcard.InvalidCard)

	err := svc.Create("bad.vcf", "Bad")
	require.Error(t, err)

	var codeErr *vcard.CodeError
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, vcard.InvalidCard, codeErr.Code)

	// Rejected file removed, nothing cached, nothing leaked.
	_, statErr := os.Stat(filepath.Join(dir, "bad.vcf"))
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, cache.List())
	assert.Zero(t, lib.LiveHandles())
}

func TestCreate_ValidationRejectionSurfacesCode(t *testing.T) {
	svc, lib, _, _ := newTestService(t)
	lib.FailValidate("bad.vcf", vcard.InvalidProperty)

	err := svc.Create("bad.vcf", "Bad")
	var codeErr *vcard.CodeError
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, vcard.InvalidProperty, codeErr.Code)
	assert.Zero(t, lib.LiveHandles())
}

func TestSetFormattedName(t *testing.T) {
	svc, _, cache, _ := newTestService(t)
	require.NoError(t, svc.Create("a.vcf", "Before"))

	require.NoError(t, svc.SetFormattedName("a.vcf", "After"))

	h, ok := cache.Get("a.vcf")
	require.True(t, ok)
	assert.Equal(t, "After", h.FormattedName())
}

func TestSetFormattedName_MissingFile(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.Error(t, svc.SetFormattedName("nope.vcf", "Name"))
}

func TestSetFormattedName_FailurePreservesPriorContent(t *testing.T) {
	svc, lib, cache, dir := newTestService(t)
	require.NoError(t, svc.Create("a.vcf", "Original"))
	before, err := os.ReadFile(filepath.Join(dir, "a.vcf"))
	require.NoError(t, err)

	// The staged candidate fails validation: the live file must be
	// untouched, the staging file cleaned up, the code surfaced.
	lib.FailNextValidate(vcard.InvalidDateTime)
	err = svc.SetFormattedName("a.vcf", "Replacement")

	var codeErr *vcard.CodeError
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, vcard.InvalidDateTime, codeErr.Code)

	after, err := os.ReadFile(filepath.Join(dir, "a.vcf"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	staged, err := os.ReadDir(filepath.Join(dir, ".staging"))
	require.NoError(t, err)
	assert.Empty(t, staged)

	h, ok := cache.Get("a.vcf")
	require.True(t, ok)
	assert.Equal(t, "Original", h.FormattedName())
	// Only the cached handle for a.vcf remains live.
	assert.Equal(t, 1, lib.LiveHandles())
}

func TestSummary(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	require.NoError(t, svc.Create("a.vcf", "Alice"))

	sum, err := svc.Summary("a.vcf")
	require.NoError(t, err)
	assert.Equal(t, "a.vcf", sum.Filename)
	assert.Equal(t, "Alice", sum.FormattedName)
	assert.True(t, sum.Birthday.Unspecified())
	assert.Zero(t, sum.OptionalProperties)

	_, err = svc.Summary("missing.vcf")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	require.NoError(t, svc.Create("a.vcf", "Alice"))

	text, err := svc.Render("a.vcf")
	require.NoError(t, err)
	assert.Contains(t, text, "BEGIN:VCARD")
	assert.Contains(t, text, "FN:Alice")

	_, err = svc.Render("missing.vcf")
	assert.Error(t, err)
}
