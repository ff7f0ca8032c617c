package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefault_LookupEveryCode(t *testing.T) {
	c := defaultCatalog(t)
	require.Greater(t, c.Len(), 100)

	for _, lang := range c.Listing() {
		got, ok := c.Lookup(lang.Code)
		require.True(t, ok, "lookup %s", lang.Code)
		assert.Equal(t, lang.Code, got.Code)
		assert.NotEmpty(t, got.Name)
	}
}

func TestLookup(t *testing.T) {
	c := defaultCatalog(t)

	tests := []struct {
		code     string
		wantName string
		wantOK   bool
	}{
		{code: "en", wantName: "English", wantOK: true},
		{code: "es", wantName: "Spanish", wantOK: true},
		{code: "zh-CN", wantName: "Chinese (Simplified)", wantOK: true},
		{code: "EN", wantOK: false},
		{code: "zh-cn", wantOK: false},
		{code: "zz", wantOK: false},
		{code: "", wantOK: false},
		{code: "auto", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := c.Lookup(tt.code)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, got.Name)
			} else {
				assert.Equal(t, Language{}, got)
			}
		})
	}
}

func TestCodesPattern(t *testing.T) {
	c := defaultCatalog(t)
	pattern := c.CodesPattern()

	for _, lang := range c.Listing() {
		assert.True(t, pattern.MatchString(lang.Code), lang.Code)
	}

	for _, code := range []string{"EN", "Es", "ZH-cn", "HAW"} {
		assert.True(t, pattern.MatchString(code), code)
	}

	for _, code := range []string{"zz", "", "en ", "xen", "enx", "en|es", "zh", "auto", "e."} {
		assert.False(t, pattern.MatchString(code), code)
	}
}

func TestCodesPattern_FollowsTable(t *testing.T) {
	c := New([]Language{{Code: "en", Name: "English"}})
	assert.False(t, c.CodesPattern().MatchString("tlh"))

	c = New([]Language{{Code: "en", Name: "English"}, {Code: "tlh", Name: "Klingon"}})
	assert.True(t, c.CodesPattern().MatchString("tlh"))
}

func TestListing_KeepsTableOrder(t *testing.T) {
	c := New([]Language{
		{Code: "fr", Name: "French"},
		{Code: "af", Name: "Afrikaans"},
		{Code: "en", Name: "English"},
	})

	got := c.Listing()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"fr", "af", "en"}, []string{got[0].Code, got[1].Code, got[2].Code})

	// mutating the copy must not affect the catalog
	got[0].Name = "changed"
	fr, _ := c.Lookup("fr")
	assert.Equal(t, "French", fr.Name)
}

func TestResolve(t *testing.T) {
	c := defaultCatalog(t)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "en", want: "en"},
		{in: "EN", want: "en"},
		{in: " es ", want: "es"},
		{in: "zh-cn", want: "zh-CN"},
		{in: "ZH-TW", want: "zh-TW"},
		{in: "en-US", want: "en"},
		{in: "fr_CA", want: "fr"},
		{in: "zz", wantErr: true},
		{in: "zz-ZZ", wantErr: true},
		{in: "", wantErr: true},
		{in: "auto", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := c.Resolve(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Code)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid json", data: `[{"code": "en"`},
		{name: "not an array", data: `{"code": "en", "name": "English"}`},
		{name: "missing code", data: `[{"name": "English"}]`},
		{name: "duplicate code", data: `[{"code": "en", "name": "English"}, {"code": "en", "name": "Anglais"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EmptyTable(t *testing.T) {
	c, err := Load([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.CodesPattern().MatchString(""))

	_, err = c.Resolve("en")
	require.ErrorIs(t, err, ErrUnknownCode)
}

func TestNew_CompilesResolvePattern(t *testing.T) {
	c := New([]Language{{Code: "en", Name: "English"}, {Code: "zh-CN", Name: "Chinese (Simplified)"}})
	require.NotNil(t, c.pattern)

	compiled := c.pattern
	for _, code := range []string{"EN", "zh-cn", "en-GB"} {
		_, err := c.Resolve(code)
		require.NoError(t, err, code)
	}
	assert.Same(t, compiled, c.pattern)
	assert.Equal(t, c.CodesPattern().String(), c.pattern.String())
}

func BenchmarkResolve(b *testing.B) {
	c, err := Default()
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Resolve("zh-cn"); err != nil {
			b.Fatal(err)
		}
	}
}
