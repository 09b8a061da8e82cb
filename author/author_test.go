package author

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthor_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   bool
	}{
		{"empty", Author{}, false},
		{"id only", Author{ID: "kinow"}, true},
		{"name only", Author{Name: "Bruno"}, true},
		{"email only", Author{Email: "bruno@example.com"}, true},
		{"url only", Author{URL: "http://example.com"}, true},
		{"blank fallback name", Author{Name: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.author.IsValid())
		})
	}
}

func TestEqual_AllFields(t *testing.T) {
	base := Author{ID: "a", Name: "Alice", Email: "alice@x.com", URL: "http://x.com"}

	assert.True(t, Equal(base, base))
	assert.True(t, Equal(Author{}, Author{}), "both absent compare equal")

	// Each field on its own must break equality; the last compared field must
	// not be the only one that counts.
	variants := []Author{
		{ID: "b", Name: "Alice", Email: "alice@x.com", URL: "http://x.com"},
		{ID: "a", Name: "Alicia", Email: "alice@x.com", URL: "http://x.com"},
		{ID: "a", Name: "Alice", Email: "other@x.com", URL: "http://x.com"},
		{ID: "a", Name: "Alice", Email: "alice@x.com", URL: "http://y.com"},
		{Name: "Alice", Email: "alice@x.com", URL: "http://x.com"},
	}
	for _, v := range variants {
		assert.False(t, Equal(base, v), "%v vs %v", base, v)
		assert.Equal(t, base == v, Equal(base, v))
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b Author
		want bool
	}{
		{"same id", Author{ID: "bob"}, Author{ID: "bob", Name: "Bob"}, true},
		{"same name", Author{Name: "Carol"}, Author{Name: "Carol", Email: "c@x.com"}, true},
		{"same email", Author{Email: "c@x.com"}, Author{Name: "C", Email: "c@x.com"}, true},
		{"id never compared to name", Author{ID: "bob"}, Author{Name: "bob"}, false},
		{"url ignored", Author{URL: "http://x.com"}, Author{URL: "http://x.com"}, false},
		{"both absent does not match", Author{Name: "A"}, Author{Email: "b@x.com"}, false},
		{"empty records", Author{}, Author{}, false},
		{"different everything", Author{ID: "a", Name: "A", Email: "a@x.com"}, Author{ID: "b", Name: "B", Email: "b@x.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.a, tt.b))
			assert.Equal(t, Matches(tt.a, tt.b), Matches(tt.b, tt.a), "Matches must be symmetric")
		})
	}
}

func TestMatches_Symmetric(t *testing.T) {
	values := []string{"", "x", "y"}
	var all []Author
	for _, id := range values {
		for _, name := range values {
			for _, email := range values {
				all = append(all, Author{ID: id, Name: name, Email: email})
			}
		}
	}

	for _, a := range all {
		for _, b := range all {
			assert.Equal(t, Matches(a, b), Matches(b, a), "%v / %v", a, b)
		}
	}
}

func TestAuthor_Description(t *testing.T) {
	assert.Equal(t, "id=<empty>, name=Carol, email=carol@x.com",
		Author{Name: "Carol", Email: "carol@x.com"}.Description())
	assert.Equal(t, "id=bob, name=<empty>, email=<empty>",
		Author{ID: "bob", URL: "http://bob.dev"}.Description())
	assert.Equal(t, "id=<empty>, name=<empty>, email=<empty>",
		Author{Name: "  "}.Description())
}

func TestAuthor_String(t *testing.T) {
	assert.Equal(t, "<bob, Bob, , >", Author{ID: "bob", Name: "Bob"}.String())
}
