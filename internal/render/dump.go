package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
	"tennisscout/internal/assert"
	"tennisscout/internal/telemetry"
)

const report_dump_write = "dump.write"

// DumpingRenderer writes every page it renders to a directory, the markup
// and the flattened text side by side. Extractors can then be checked
// against exactly what the site served.
type DumpingRenderer struct {
	inner     Renderer
	directory string
	count     *atomic.Int64
	tel       telemetry.API
}

// NewDumpingRenderer wraps inner, pages are written to a new timestamped
// directory inside dir. Nothing already in dir is touched.
func NewDumpingRenderer(inner Renderer, dir string, tel telemetry.API) (DumpingRenderer, error) {
	assert.NotNil(inner)
	assert.NotNil(tel)
	assert.NotEmptyStr(dir)

	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return DumpingRenderer{}, err
	}
	// Mkdir fails when the directory exists, so two runs in the same
	// second never share a directory.
	base := filepath.Join(dir, time.Now().Format("20060102-150405"))
	run := base
	for i := 2; ; i++ {
		err = os.Mkdir(run, 0777)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return DumpingRenderer{}, err
		}
		run = fmt.Sprintf("%s-%d", base, i)
	}

	return DumpingRenderer{
		inner:     inner,
		directory: run,
		count:     &atomic.Int64{},
		tel:       telemetry.NewScopedAPI("render", tel),
	}, nil
}

// Directory is where this renderer writes its pages.
func (r DumpingRenderer) Directory() string {
	return r.directory
}

func (r DumpingRenderer) Render(ctx context.Context, url string) (Page, error) {
	page, err := r.inner.Render(ctx, url)
	if err != nil {
		return page, err
	}

	name := fmt.Sprintf("%02d-%s", r.count.Add(1), dumpName(url))
	for ext, contents := range map[string]string{".html": page.HTML, ".txt": page.Text} {
		path := filepath.Join(r.directory, name+ext)
		err := os.WriteFile(path, []byte(contents), 0600)
		if err != nil {
			r.tel.ReportWarning(report_dump_write, path, err)
		}
	}
	return page, nil
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9.-]+`)

// dumpName turns a page url into a file name, e.g.
// https://www.atptour.com/en/players?search=x -> www.atptour.com-en-players-search-x
func dumpName(pageUrl string) string {
	parsed, err := url.Parse(pageUrl)
	if err != nil {
		return "page"
	}
	name := parsed.Host + "/" + parsed.Path + "/" + parsed.RawQuery
	name = strings.Trim(unsafeFilename.ReplaceAllString(name, "-"), "-")
	if name == "" {
		return "page"
	}
	return name
}
