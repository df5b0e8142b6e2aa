package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  Sukodono ", "SUKODONO"},
		{"uppercases", "waru", "WARU"},
		{"mixed case and padding", " Kec A\t", "KEC A"},
		{"already canonical", "TAMAN", "TAMAN"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"interior whitespace preserved", "KEC  A", "KEC  A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{" Foo ", "FOO", "kec sidoarjo", "", "  Gedangan\n"}
	for _, s := range inputs {
		once := Key(s)
		assert.Equal(t, once, Key(once), "Key must be idempotent for %q", s)
	}
}

func TestKeyCaseAndWhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, Key("FOO"), Key(" Foo "))
	assert.Equal(t, Key("kec a"), Key("KEC A "))
}
