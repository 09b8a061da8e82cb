package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestInvalidRequest(t *testing.T) {
	err := NewInvalidRequestError("unknown scm kind %q", "cvs")

	assert.True(t, IsInvalidRequestError(err))
	assert.False(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), `unknown scm kind "cvs"`)
}

func TestAuthorshipError_Kinds(t *testing.T) {
	cause := New("connection refused")

	tests := []struct {
		name string
		err  error
		kind Kind
		msg  string
	}{
		{"retrieval", RetrievalFailure(cause, "failed to clone %s", "repo"), KindRetrieval, "failed to clone repo: connection refused"},
		{"analysis", AnalysisFailure(cause, "failed to resolve %s", "HEAD"), KindAnalysis, "failed to resolve HEAD: connection refused"},
		{"scan", ScanFailure(cause, "failed to read sources"), KindScan, "failed to read sources: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsAuthorshipError(tt.err))
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.True(t, Is(tt.err, cause), "cause should stay reachable")

			kind, ok := KindOf(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestAuthorshipError_SurvivesWrapping(t *testing.T) {
	err := Wrap(ScanFailure(nil, "bad pattern"), "annotation source")

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindScan, kind)
	assert.Equal(t, "annotation source: bad pattern", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := KindOf(New("plain"))
	assert.False(t, ok)

	_, ok = KindOf(nil)
	assert.False(t, ok)
	assert.False(t, IsAuthorshipError(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "retrieval", KindRetrieval.String())
	assert.Equal(t, "analysis", KindAnalysis.String())
	assert.Equal(t, "scan", KindScan.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestStackTrace(t *testing.T) {
	err := AnalysisFailure(New("boom"), "walk failed")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func ExampleWrap() {
	baseErr := New("connection failed")
	err := Wrap(baseErr, "failed to fetch history")
	fmt.Println(err)
	// Output: failed to fetch history: connection failed
}
