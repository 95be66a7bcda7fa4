package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeLocales(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "locales"), 0o755))
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "locales", name), []byte(data), 0o600))
	}
	return dir
}

func TestMissing(t *testing.T) {
	dir := writeLocales(t, map[string]string{
		"en.yaml": "home: Home\ntraining: Training\nsupport: Support\n",
		"fr.yaml": "home: Accueil\ntraining: Formation\nsupport: Assistance\n",
		"ar.yaml": "home: الرئيسية\n",
		"pt.yaml": "home: Início\ntraining: Formação\nsupport: \"\"\n",
	})

	t.Run("all languages", func(t *testing.T) {
		out, err := run(t, "missing", "--dir", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "fr: 0 of 3 keys missing")
		assert.Contains(t, out, "ar: 2 of 3 keys missing\n  support\n  training\n")
		assert.Contains(t, out, "pt: 1 of 3 keys missing\n  support\n")
		assert.NotContains(t, out, "en:")
	})

	t.Run("single language", func(t *testing.T) {
		out, err := run(t, "missing", "--dir", dir, "--lang", "fr")
		require.NoError(t, err)
		assert.Equal(t, "fr: 0 of 3 keys missing\n", out)
	})

	t.Run("strict fails on gaps", func(t *testing.T) {
		_, err := run(t, "missing", "--dir", dir, "--strict")
		assert.ErrorIs(t, err, errMissingKeys)
	})

	t.Run("strict passes when complete", func(t *testing.T) {
		_, err := run(t, "missing", "--dir", dir, "--lang", "fr", "--strict")
		assert.NoError(t, err)
	})

	t.Run("unsupported language", func(t *testing.T) {
		_, err := run(t, "missing", "--dir", dir, "--lang", "de")
		assert.Error(t, err)
	})
}

func TestMissing_EmbeddedCatalogLoads(t *testing.T) {
	out, err := run(t, "missing", "--lang", "ar")
	require.NoError(t, err)
	assert.Contains(t, out, "ar: ")
}

func TestMissing_BadDirectory(t *testing.T) {
	_, err := run(t, "missing", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "header redirect",
			args: []string{"--path", "/training", "--accept-language", "fr-CA,fr;q=0.9"},
			want: `{"action":"redirect","language":"fr","target":"/fr/training","source":"header"}`,
		},
		{
			name: "cookie beats header",
			args: []string{"--path", "/", "--cookie", "ar", "--accept-language", "fr"},
			want: `{"action":"redirect","language":"ar","target":"/ar","source":"cookie"}`,
		},
		{
			name: "prefixed path",
			args: []string{"--path", "/pt/support"},
			want: `{"action":"pass","language":"pt","source":"path"}`,
		},
		{
			name: "excluded path",
			args: []string{"--path", "/api/content"},
			want: `{"action":"pass","source":"excluded"}`,
		},
		{
			name: "default language",
			args: []string{"--path", "/support", "--accept-language", "de"},
			want: `{"action":"pass","language":"en","source":"default"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"resolve"}, tt.args...)...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}
}
