package jianshu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectionSlug(t *testing.T) {
	tests := []struct {
		input   string
		expect  string
		wantErr bool
	}{
		{input: "https://www.jianshu.com/c/7ecac177f5a8", expect: "7ecac177f5a8"},
		{input: "https://www.jianshu.com/c/qQB2Zn/", expect: "qQB2Zn"},
		{input: "https://jianshu.com/c/avQwgf", expect: "avQwgf"},
		{input: "https://www.jianshu.com/p/abc123", wantErr: true},
		{input: "https://example.com/c/avQwgf", wantErr: true},
		{input: "://bad", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CollectionSlug(tt.input)
		if tt.wantErr {
			require.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		require.Equal(t, tt.expect, got)
	}
}

func TestLinks(t *testing.T) {
	require.Equal(t, "https://www.jianshu.com/p/abc123", ArticleURL("abc123"))
	require.Equal(t, "https://www.jianshu.com/u/u777", UserURL("u777"))
	require.Equal(t, "jianshu://notes/101", ArticleURLScheme(101))
}
