package ocr_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/ocr"
)

// fakeRunner stands in for pdftoppm by writing one small PNG per page.
type fakeRunner struct {
	pages int
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, []byte("syntax error"), f.err
	}
	prefix := args[len(args)-1]
	for i := 1; i <= f.pages; i++ {
		if err := writePNG(fmt.Sprintf("%s-%d.png", prefix, i)); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func writePNG(path string) error {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// pageRecognizer returns "[page-N]" for every image, failing on listed pages.
type pageRecognizer struct {
	fail     map[string]bool
	unusable error
	seen     []string
}

func (p *pageRecognizer) Name() string     { return "fake" }
func (p *pageRecognizer) Available() error { return p.unusable }
func (p *pageRecognizer) Recognize(_ context.Context, path string) (string, error) {
	base := filepath.Base(path)
	p.seen = append(p.seen, base)
	name := strings.TrimSuffix(strings.TrimSuffix(base, ".png"), "-enhanced")
	if p.fail[name] {
		return "", errors.New("unreadable page")
	}
	return "[" + name + "]", nil
}

func found(string) (string, error) { return "/usr/bin/tool", nil }

func missing(name string) (string, error) {
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

func newEngine(cfg config.OCRConfig, rec ocr.Recognizer, runner ocr.Runner) *ocr.Engine {
	return ocr.NewEngine(cfg, rec).WithRunner(runner, found)
}

func TestRecognizePDF_ConcatenatesPagesInNumericOrder(t *testing.T) {
	runner := &fakeRunner{pages: 11}
	rec := &pageRecognizer{}
	engine := newEngine(config.OCRConfig{DPI: 200}, rec, runner)

	res, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)

	var want strings.Builder
	for i := 1; i <= 11; i++ {
		fmt.Fprintf(&want, "[page-%d]", i)
	}
	assert.Equal(t, want.String(), res.Text)
	assert.Equal(t, 11, res.Pages)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "pdftoppm", call[0])
	assert.Equal(t, []string{"-r", "200", "-png", "/tmp/scan.pdf"}, call[1:5])
}

func TestRecognizePDF_MaxPagesLimitsRange(t *testing.T) {
	runner := &fakeRunner{pages: 2}
	engine := newEngine(config.OCRConfig{MaxPages: 2}, &pageRecognizer{}, runner)

	_, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)
	assert.Contains(t, strings.Join(runner.calls[0], " "), "-f 1 -l 2")
}

func TestRecognizePDF_SkipsFailedPages(t *testing.T) {
	rec := &pageRecognizer{fail: map[string]bool{"page-2": true}}
	engine := newEngine(config.OCRConfig{}, rec, &fakeRunner{pages: 3})

	res, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "[page-1][page-3]", res.Text)
	assert.Equal(t, 3, res.Pages)
}

func TestRecognizePDF_AllPagesFail(t *testing.T) {
	rec := &pageRecognizer{fail: map[string]bool{"page-1": true, "page-2": true}}
	engine := newEngine(config.OCRConfig{}, rec, &fakeRunner{pages: 2})

	_, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 pages")
}

func TestRecognizePDF_RasterizeFailure(t *testing.T) {
	engine := newEngine(config.OCRConfig{}, &pageRecognizer{}, &fakeRunner{err: errors.New("exit status 1")})

	_, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm")
	assert.Contains(t, err.Error(), "syntax error")
}

func TestRecognizePDF_NoImages(t *testing.T) {
	engine := newEngine(config.OCRConfig{}, &pageRecognizer{}, &fakeRunner{pages: 0})

	_, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestRecognizePDF_EnhanceFeedsEnhancedImages(t *testing.T) {
	rec := &pageRecognizer{}
	engine := newEngine(config.OCRConfig{Enhance: true}, rec, &fakeRunner{pages: 2})

	res, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "[page-1][page-2]", res.Text)
	assert.Equal(t, []string{"page-1-enhanced.png", "page-2-enhanced.png"}, rec.seen)
}

func TestAvailable(t *testing.T) {
	t.Run("disabled engine", func(t *testing.T) {
		engine := ocr.NewEngine(config.OCRConfig{}, nil)
		assert.ErrorIs(t, engine.Available(), domain.ErrOCRUnavailable)
	})

	t.Run("missing pdftoppm", func(t *testing.T) {
		engine := ocr.NewEngine(config.OCRConfig{}, &pageRecognizer{}).WithRunner(&fakeRunner{}, missing)
		err := engine.Available()
		assert.ErrorIs(t, err, domain.ErrOCRUnavailable)
		assert.Contains(t, err.Error(), "pdftoppm")
	})

	t.Run("recognizer unusable", func(t *testing.T) {
		rec := &pageRecognizer{unusable: errors.New("no key")}
		engine := newEngine(config.OCRConfig{}, rec, &fakeRunner{})
		assert.ErrorIs(t, engine.Available(), domain.ErrOCRUnavailable)
	})

	t.Run("ready", func(t *testing.T) {
		assert.NoError(t, newEngine(config.OCRConfig{}, &pageRecognizer{}, &fakeRunner{}).Available())
	})
}

func TestRecognizePDF_UnavailableSkipsRasterize(t *testing.T) {
	runner := &fakeRunner{pages: 1}
	engine := ocr.NewEngine(config.OCRConfig{}, nil).WithRunner(runner, found)

	_, err := engine.RecognizePDF(context.Background(), "/tmp/scan.pdf")
	assert.ErrorIs(t, err, domain.ErrOCRUnavailable)
	assert.Empty(t, runner.calls)
}

func TestNewFromConfig(t *testing.T) {
	for _, name := range []string{"", "tesseract", "azure", "none"} {
		_, err := ocr.NewFromConfig(config.OCRConfig{Engine: name})
		assert.NoError(t, err, name)
	}
	_, err := ocr.NewFromConfig(config.OCRConfig{Engine: "abbyy"})
	assert.Error(t, err)
}

func TestTesseract_Args(t *testing.T) {
	runner := &recordingRunner{out: "Invoice 1042\n"}
	tess := ocr.NewTesseract("", "deu", "/opt/tessdata").WithRunner(runner, found)

	text, err := tess.Recognize(context.Background(), "/tmp/page-1.png")
	require.NoError(t, err)
	assert.Equal(t, "Invoice 1042\n", text)
	assert.Equal(t, []string{"tesseract", "/tmp/page-1.png", "stdout", "-l", "deu", "--tessdata-dir", "/opt/tessdata"}, runner.call)
}

func TestTesseract_Failure(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 1"), stderr: "Failed loading language 'xyz'"}
	tess := ocr.NewTesseract("", "xyz", "").WithRunner(runner, found)

	_, err := tess.Recognize(context.Background(), "/tmp/page-1.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed loading language")
}

func TestTesseract_Available(t *testing.T) {
	assert.Error(t, ocr.NewTesseract("", "", "").WithRunner(&recordingRunner{}, missing).Available())
	assert.NoError(t, ocr.NewTesseract("", "", "").WithRunner(&recordingRunner{}, found).Available())
}

type recordingRunner struct {
	out    string
	stderr string
	err    error
	call   []string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.call = append([]string{name}, args...)
	return []byte(r.out), []byte(r.stderr), r.err
}
