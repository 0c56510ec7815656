package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/config"
	"github.com/xkilldash9x/svggraph/internal/validate"
)

func newValidator(t *testing.T) *validate.Validator {
	t.Helper()
	return validate.New(config.Default().Parser, zap.NewNop())
}

func codes(errs []schemas.ParseError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidator_BasicChecks(t *testing.T) {
	v := newValidator(t)

	t.Run("empty markup is an error", func(t *testing.T) {
		valid, errs := v.Validate("   ")
		assert.False(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeEmptyContent)
	})

	t.Run("missing svg tag is an error", func(t *testing.T) {
		valid, errs := v.Validate(`<div>not a drawing</div>`)
		assert.False(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeNoSVGTag)
	})

	t.Run("unbalanced tags warn without blocking on their own", func(t *testing.T) {
		// Well-formed XML-wise would fail too here, so only check the code.
		_, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg"><rect`)
		assert.Contains(t, codes(errs), schemas.CodeUnbalancedTags)
	})

	t.Run("oversized markup warns", func(t *testing.T) {
		cfg := config.Default().Parser
		cfg.MaxMarkupBytes = 64
		small := validate.New(cfg, zap.NewNop())

		padding := strings.Repeat("<!-- x -->", 20)
		valid, errs := small.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 1"><rect width="1" height="1"/>` + padding + `</svg>`)
		assert.True(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeContentTooLarge)
	})
}

func TestValidator_WellFormedness(t *testing.T) {
	v := newValidator(t)

	t.Run("truncated markup is an error", func(t *testing.T) {
		valid, errs := v.Validate(`<svg><rect x="1"`)
		assert.False(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeMalformedMarkup)
	})

	t.Run("mismatched close tag is an error", func(t *testing.T) {
		valid, errs := v.Validate(`<svg><rect></circle></svg>`)
		assert.False(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeMalformedMarkup)
	})

	t.Run("well-formed markup passes", func(t *testing.T) {
		valid, _ := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="5" height="5"/></svg>`)
		assert.True(t, valid)
	})
}

func TestValidator_StructuralChecks(t *testing.T) {
	v := newValidator(t)

	t.Run("missing namespace warns", func(t *testing.T) {
		valid, errs := v.Validate(`<svg viewBox="0 0 10 10"><rect width="5" height="5"/></svg>`)
		assert.True(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeMissingNamespace)
	})

	t.Run("missing dimensions warn", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="5" height="5"/></svg>`)
		assert.True(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeMissingDimensions)
	})

	t.Run("width and height satisfy dimensions", func(t *testing.T) {
		_, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="5" height="5"/></svg>`)
		assert.NotContains(t, codes(errs), schemas.CodeMissingDimensions)
	})

	t.Run("malformed viewBox is an error", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 ten 10"><rect width="5" height="5"/></svg>`)
		assert.False(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeInvalidViewBox)
	})

	t.Run("viewBox with wrong token count is an error", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10"><rect width="5" height="5"/></svg>`)
		assert.False(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeInvalidViewBox)
	})

	t.Run("empty root warns about drawable content", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"></svg>`)
		assert.True(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeNoDrawableContent)
	})
}

func TestValidator_ContentChecks(t *testing.T) {
	v := newValidator(t)

	t.Run("invalid path data warns", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path d="M0 0 L5 5 ###"/></svg>`)
		assert.True(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeInvalidPathData)
	})

	t.Run("invalid fill color warns", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="5" height="5" fill="notacolor"/></svg>`)
		assert.True(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeInvalidColor)
	})

	t.Run("valid fill colors pass", func(t *testing.T) {
		_, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
			`<rect width="1" height="1" fill="#ff0000"/>` +
			`<rect width="1" height="1" fill="rgb(1, 2, 3)"/>` +
			`<rect width="1" height="1" fill="hsla(120, 50%, 50%, 0.5)"/>` +
			`<rect width="1" height="1" fill="steelblue"/>` +
			`<rect width="1" height="1" fill="none"/>` +
			`</svg>`)
		assert.NotContains(t, codes(errs), schemas.CodeInvalidColor)
	})

	t.Run("non-numeric attribute warns", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="abc" width="5" height="5"/></svg>`)
		assert.True(t, valid)
		assert.Contains(t, codes(errs), schemas.CodeInvalidNumeric)
	})

	t.Run("duplicate ids warn once per value", func(t *testing.T) {
		valid, errs := v.Validate(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
			`<rect id="dup" width="1" height="1"/>` +
			`<rect id="dup" width="1" height="1"/>` +
			`<circle id="ok" r="1"/>` +
			`</svg>`)
		assert.True(t, valid)

		count := 0
		for _, e := range errs {
			if e.Code == schemas.CodeDuplicateID {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestValidator_FullDefectList(t *testing.T) {
	// A single call must surface findings from every layer, not stop at the
	// first failing one.
	v := newValidator(t)

	valid, errs := v.Validate(`<svg viewBox="0 0 10 10"><rect x="abc" width="5" height="5" fill="bogus"/></svg>`)
	assert.True(t, valid)

	got := codes(errs)
	assert.Contains(t, got, schemas.CodeMissingNamespace)
	assert.Contains(t, got, schemas.CodeInvalidNumeric)
	assert.Contains(t, got, schemas.CodeInvalidColor)
}

func TestIsValidColor(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"#fff", true},
		{"#ffffff", true},
		{"#ffffff80", true},
		{"rgb(0,0,0)", true},
		{"rgba(0, 0, 0, 0.5)", true},
		{"hsl(120, 50%, 50%)", true},
		{"hsla(120, 50%, 50%, 1)", true},
		{"red", true},
		{"RED", true},
		{"none", true},
		{"currentColor", true},
		{"url(#gradient)", true},
		{"", false},
		{"#ggg", false},
		{"rgb(0,0)", false},
		{"notacolor", false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			require.Equal(t, tc.want, validate.IsValidColor(tc.value), "value %q", tc.value)
		})
	}
}
