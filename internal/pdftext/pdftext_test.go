package pdftext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/onboarding/internal/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// buildPDF assembles a minimal single-font PDF with one page per text.
func buildPDF(pages ...string) []byte {
	var objs []string
	n := len(pages)
	fontID := 3 + 2*n
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
	)
	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>", 4+2*i, fontID),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return []byte(b.String())
}

func TestLocal_ExtractsPagesSeparatedByBlankLines(t *testing.T) {
	text, err := Local{}.Text(context.Background(), "report.pdf", buildPDF("Reduce PUE", "Zero waste"))

	require.NoError(t, err)
	assert.Contains(t, text, "Reduce PUE")
	assert.Contains(t, text, "Zero waste")
	assert.Less(t, strings.Index(text, "Reduce PUE"), strings.Index(text, "Zero waste"))
	assert.True(t, strings.HasSuffix(text, "\n\n"))
}

func TestLocal_RejectsGarbage(t *testing.T) {
	_, err := Local{}.Text(context.Background(), "fake.pdf", []byte("not a pdf at all"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRemote_PostsMultipartPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/extract-pdf-text", r.URL.Path)
		f, hdr, err := r.FormFile("pdf")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "report.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4 data", string(data))
		_, _ = w.Write([]byte(`{"text":"Scope 1 emissions fell 12%"}`))
	}))
	defer srv.Close()

	r := NewRemote(RemoteConfig{Endpoint: srv.URL + "/api/", Timeout: time.Second}, nil)
	text, err := r.Text(context.Background(), "report.pdf", []byte("%PDF-1.4 data"))

	require.NoError(t, err)
	assert.Equal(t, "Scope 1 emissions fell 12%", text)
}

func TestRemote_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"status", http.StatusInternalServerError, "boom", func(t *testing.T, err error) {
			var se *httpx.APIError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, 500, se.Status)
		}},
		{"missing text", http.StatusOK, `{}`, func(t *testing.T, err error) {
			assert.ErrorContains(t, err, "no text field")
		}},
		{"blank text", http.StatusOK, `{"text":"  "}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNoText)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRemote(RemoteConfig{Endpoint: srv.URL, Timeout: time.Second}, nil).
				Text(context.Background(), "a.pdf", []byte("x"))
			tt.check(t, err)
		})
	}
}

func TestFallback_UsesSecondaryOnFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fb := Fallback{
		Primary: ExtractorFunc(func(context.Context, string, []byte) (string, error) {
			return "", httpx.ErrUnavailable
		}),
		Secondary: ExtractorFunc(func(context.Context, string, []byte) (string, error) {
			return "local text", nil
		}),
		Logger: zap.New(core),
	}

	text, err := fb.Text(context.Background(), "a.pdf", nil)

	require.NoError(t, err)
	assert.Equal(t, "local text", text)
	assert.Equal(t, 1, logs.FilterMessage("primary text extraction failed, falling back").Len())
}

func TestFallback_JoinsErrors(t *testing.T) {
	errA, errB := errors.New("remote down"), errors.New("parse failed")
	fb := Fallback{
		Primary:   ExtractorFunc(func(context.Context, string, []byte) (string, error) { return "", errA }),
		Secondary: ExtractorFunc(func(context.Context, string, []byte) (string, error) { return "", errB }),
	}

	_, err := fb.Text(context.Background(), "a.pdf", nil)

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestFallback_StopsOnCancelledContext(t *testing.T) {
	var secondary atomic.Int32
	fb := Fallback{
		Primary: ExtractorFunc(func(ctx context.Context, _ string, _ []byte) (string, error) { return "", ctx.Err() }),
		Secondary: ExtractorFunc(func(context.Context, string, []byte) (string, error) {
			secondary.Add(1)
			return "x", nil
		}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fb.Text(ctx, "a.pdf", nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, secondary.Load())
}

func TestCached_MemoizesByContent(t *testing.T) {
	var calls atomic.Int32
	next := ExtractorFunc(func(_ context.Context, _ string, data []byte) (string, error) {
		calls.Add(1)
		if string(data) == "bad" {
			return "", ErrNoText
		}
		return "text of " + string(data), nil
	})
	c, err := NewCached(next, 8)
	require.NoError(t, err)
	ctx := context.Background()

	a1, _ := c.Text(ctx, "a.pdf", []byte("one"))
	a2, _ := c.Text(ctx, "renamed.pdf", []byte("one"))
	_, _ = c.Text(ctx, "b.pdf", []byte("two"))
	_, err = c.Text(ctx, "c.pdf", []byte("bad"))

	assert.Equal(t, "text of one", a1)
	assert.Equal(t, a1, a2)
	assert.ErrorIs(t, err, ErrNoText)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, c.Len())
}
