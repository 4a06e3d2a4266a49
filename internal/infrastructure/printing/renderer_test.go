package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaperSize(t *testing.T) {
	tests := []struct {
		in      string
		want    PaperSize
		wantErr bool
	}{
		{"", PaperSizeA4, false},
		{"a4", PaperSizeA4, false},
		{" Letter ", PaperSizeLetter, false},
		{"A3", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePaperSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaperSize_Dimensions(t *testing.T) {
	w, h := PaperSizeA4.Dimensions()
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 297.0, h)

	w, h = PaperSizeLetter.Dimensions()
	assert.Equal(t, 215.9, w)
	assert.Equal(t, 279.4, h)
}

func TestPrintParams(t *testing.T) {
	params := printParams(&RenderRequest{PaperSize: PaperSizeA4, MarginMM: 25.4})

	assert.InDelta(t, 8.2677, params.PaperWidth, 0.001)
	assert.InDelta(t, 11.6929, params.PaperHeight, 0.001)
	assert.InDelta(t, 1.0, params.MarginTop, 1e-9)
	assert.InDelta(t, 1.0, params.MarginLeft, 1e-9)
	assert.True(t, params.PrintBackground)
}

func TestWrapDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapDocument(&RenderRequest{HTML: full}))

	wrapped := wrapDocument(&RenderRequest{HTML: "<p>hola</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>hola</p></body>")
}

func TestChromedpRenderer_EmptyInput(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{HTML: "   "})
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidInput, re.Code)
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)
	assert.Equal(t, "chromedp execution failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "no cause", NewRenderError(ErrCodeTemplate, "no cause", nil).Error())
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF")))
	assert.Equal(t, 0, estimatePageCount(nil))
}
