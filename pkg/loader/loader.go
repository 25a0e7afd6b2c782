// Package loader fetches and parses the mesh parts of a model concurrently
// and reports them together once every part has either loaded or failed.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/showcase/pkg/models"
	"github.com/taigrr/showcase/pkg/scene"
)

// ErrUnsupportedFormat is returned for sources whose extension has no parser.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Role says how a part takes part in assembly.
type Role int

const (
	// RolePrimary is the main body. Without it the fallback model is shown.
	RolePrimary Role = iota
	// RoleSecondary parts are placed against the primary and are optional.
	RoleSecondary
)

func (r Role) String() string {
	if r == RoleSecondary {
		return "secondary"
	}
	return "primary"
}

// Request names one part to load.
type Request struct {
	Name string
	// Source is a slash-separated path inside the loader's asset root, or an
	// http:// or https:// URL.
	Source   string
	Role     Role
	Material models.Material
}

// Result is the outcome of one request. Exactly one of Part and Err is set.
type Result struct {
	Index   int
	Request Request
	Part    *scene.Part
	Err     error
}

// OK reports whether the part loaded.
func (r Result) OK() bool {
	return r.Err == nil && r.Part != nil
}

// ProgressFunc receives byte counts while a source is read. total is -1 when
// the size is unknown.
type ProgressFunc func(name string, loaded, total int64)

// Loader fetches, parses and normalizes parts.
type Loader struct {
	Assets fs.FS
	Client *http.Client
	Log    *zap.Logger

	// OnProgress, if set, is called from fetch goroutines as bytes arrive.
	OnProgress ProgressFunc

	// Concurrency caps simultaneous fetches; zero means no limit.
	Concurrency int

	STL  *models.STLLoader
	GLTF *models.GLTFLoader
}

// New returns a loader reading relative sources from assets.
func New(assets fs.FS, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		Assets: assets,
		Client: http.DefaultClient,
		Log:    log,
		STL:    models.NewSTLLoader(),
		GLTF:   models.NewGLTFLoader(),
	}
}

// Load starts loading every request and returns immediately. onComplete is
// called once, from a loader goroutine, with one result per request in
// request order, whatever subset succeeded. Canceling ctx makes pending
// requests fail with the context error; the session still completes.
func (l *Loader) Load(ctx context.Context, reqs []Request, onComplete func([]Result)) *Session {
	s := NewSession(len(reqs), onComplete)
	if len(reqs) == 0 {
		go s.fire(nil)
		return s
	}

	go func() {
		var g errgroup.Group
		if l.Concurrency > 0 {
			g.SetLimit(l.Concurrency)
		}
		for i, req := range reqs {
			g.Go(func() error {
				res := <-l.Fetch(ctx, req)
				res.Index = i
				s.Resolve(res)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return s
}

// Fetch loads one part in the background. The returned channel yields
// exactly one result and is then closed.
func (l *Loader) Fetch(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- l.LoadPart(ctx, req)
	}()
	return ch
}

// LoadPart fetches, parses and normalizes one part synchronously.
func (l *Loader) LoadPart(ctx context.Context, req Request) Result {
	log := l.Log.With(zap.String("part", req.Name), zap.String("source", req.Source))

	part, err := l.loadPart(ctx, req)
	if err != nil {
		log.Error("part failed to load", zap.Stringer("role", req.Role), zap.Error(err))
		return Result{Request: req, Err: err}
	}

	log.Info("part loaded",
		zap.Int("vertices", part.Mesh.VertexCount()),
		zap.Int("triangles", part.Mesh.TriangleCount()),
	)
	return Result{Request: req, Part: part}
}

func (l *Loader) loadPart(ctx context.Context, req Request) (*scene.Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := l.read(ctx, req)
	if err != nil {
		return nil, err
	}

	mesh, err := l.parse(data, req)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.Source, err)
	}
	mesh.Normalize()

	return scene.NewPart(req.Name, mesh, req.Material), nil
}

// Format returns the lower-case extension of a source, ignoring any URL
// query or fragment.
func Format(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}
	return strings.ToLower(path.Ext(source))
}

func (l *Loader) parse(data []byte, req Request) (*models.Mesh, error) {
	switch ext := Format(req.Source); ext {
	case ".stl":
		return l.STL.Load(data, req.Name)
	case ".glb":
		return l.GLTF.Load(bytes.NewReader(data), req.Name)
	case ".gltf":
		return l.GLTF.LoadFS(bytes.NewReader(data), l.siblings(req), req.Name)
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
}

// IsRemote reports whether source is fetched over HTTP rather than read
// from the asset root.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// siblings returns the asset directory holding a local source, against which
// a .gltf document's relative buffer URIs resolve. Remote documents get nil.
func (l *Loader) siblings(req Request) fs.FS {
	if l.Assets == nil || IsRemote(req.Source) {
		return nil
	}
	dir := path.Dir(path.Clean(strings.TrimPrefix(req.Source, "/")))
	sub, err := fs.Sub(l.Assets, dir)
	if err != nil {
		return nil
	}
	return sub
}

func (l *Loader) read(ctx context.Context, req Request) ([]byte, error) {
	if IsRemote(req.Source) {
		return l.readURL(ctx, req)
	}
	return l.readAsset(req)
}

func (l *Loader) readURL(ctx context.Context, req Request) ([]byte, error) {
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.Client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.Source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", req.Source, resp.Status)
	}
	return l.readAll(req.Name, resp.Body, resp.ContentLength)
}

func (l *Loader) readAsset(req Request) ([]byte, error) {
	if l.Assets == nil {
		return nil, fmt.Errorf("open %s: no asset root", req.Source)
	}
	name := path.Clean(strings.TrimPrefix(req.Source, "/"))

	f, err := l.Assets.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", req.Source, err)
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return l.readAll(req.Name, f, size)
}

func (l *Loader) readAll(name string, r io.Reader, total int64) ([]byte, error) {
	if l.OnProgress != nil {
		r = &progressReader{r: r, name: name, total: total, fn: l.OnProgress}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

type progressReader struct {
	r      io.Reader
	name   string
	loaded int64
	total  int64
	fn     ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.fn(p.name, p.loaded, p.total)
	}
	return n, err
}
