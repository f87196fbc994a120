package rowan

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// A prototype bundle packages the scene export, the configuration documents,
// and screen assets. Bundles open from a directory, a zip archive, or an
// inline data: URL carrying a base64 zip. File lookups fall back through the
// conventional subdirectories so hand-assembled and exporter-produced
// layouts both load.

// bundleSearchPath lists the prefixes tried for every file lookup, in order.
var bundleSearchPath = []string{"", "FunctionalSpecification", "Screens"}

// ManifestFile is the optional bundle manifest name.
const ManifestFile = "prototype.yaml"

// SceneFile is the default scene export name.
const SceneFile = "Scene.json"

// Bundle is read-only access to a prototype's files.
type Bundle struct {
	fsys   fs.FS
	closer io.Closer
}

// OpenBundle opens a bundle from a directory path, a .zip archive path, or a
// "data:" URL with base64 zip payload.
func OpenBundle(url string) (*Bundle, error) {
	if strings.HasPrefix(url, "data:") {
		return openDataBundle(url)
	}
	info, err := os.Stat(url)
	if err != nil {
		return nil, &AssetNotFoundError{Name: url, Wrapped: err}
	}
	if info.IsDir() {
		return &Bundle{fsys: os.DirFS(url)}, nil
	}
	rc, err := zip.OpenReader(url)
	if err != nil {
		return nil, configErrorf(url, "not a directory or zip archive: %v", err)
	}
	return &Bundle{fsys: &rc.Reader, closer: rc}, nil
}

func openDataBundle(url string) (*Bundle, error) {
	comma := strings.IndexByte(url, ',')
	if comma < 0 {
		return nil, configErrorf(url, "malformed data URL")
	}
	payload, err := base64.StdEncoding.DecodeString(url[comma+1:])
	if err != nil {
		return nil, configErrorf("data URL", "bad base64 payload: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, configErrorf("data URL", "payload is not a zip archive: %v", err)
	}
	return &Bundle{fsys: zr}, nil
}

// NewBundleFS wraps an existing filesystem as a bundle. Tests use fstest.MapFS.
func NewBundleFS(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys}
}

// Close releases the underlying archive, when there is one.
func (b *Bundle) Close() error {
	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

// ReadFile reads a named file, searching the fallback path. Missing files
// return an AssetNotFoundError listing every location tried.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	var tried []string
	for _, prefix := range bundleSearchPath {
		p := path.Join(prefix, name)
		tried = append(tried, p)
		data, err := fs.ReadFile(b.fsys, p)
		if err == nil {
			return data, nil
		}
	}
	return nil, &AssetNotFoundError{Name: name, Tried: tried}
}

// Exists reports whether the named file resolves anywhere on the search path.
func (b *Bundle) Exists(name string) bool {
	for _, prefix := range bundleSearchPath {
		if f, err := b.fsys.Open(path.Join(prefix, name)); err == nil {
			f.Close()
			return true
		}
	}
	return false
}

// --- Manifest ---

// Manifest is the optional prototype.yaml document at the bundle root.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Scene names the scene export file. Defaults to Scene.json.
	Scene string `yaml:"scene"`
	// Spec names a combined functional specification document. When empty
	// the loader probes FunctionalSpecification.json, then the split files.
	Spec string `yaml:"spec"`
}

// LoadManifest reads and validates the bundle manifest. An absent manifest
// yields defaults.
func (b *Bundle) LoadManifest() (*Manifest, error) {
	m := &Manifest{Scene: SceneFile}
	data, err := b.ReadFile(ManifestFile)
	if err != nil {
		return m, nil
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, configErrorf(ManifestFile, "malformed YAML: %v", err)
	}
	if m.Scene == "" {
		m.Scene = SceneFile
	}
	return m, nil
}

// LoadSpecModel parses the bundle's configuration documents, preferring the
// combined document when present.
func (b *Bundle) LoadSpecModel(m *Manifest) (*SpecModel, error) {
	combined := m.Spec
	if combined == "" && b.Exists(FileFunctionalSpecification) {
		combined = FileFunctionalSpecification
	}
	if combined != "" {
		data, err := b.ReadFile(combined)
		if err != nil {
			return nil, err
		}
		return ParseFunctionalSpecification(data)
	}

	interactions, err := b.ReadFile(FileInteractionElements)
	if err != nil {
		return nil, err
	}
	visualizations, err := b.ReadFile(FileVisualizationElements)
	if err != nil {
		return nil, err
	}
	states, err := b.ReadFile(FileStates)
	if err != nil {
		return nil, err
	}
	transitions, err := b.ReadFile(FileTransitions)
	if err != nil {
		return nil, err
	}
	var arrays []byte
	if b.Exists(FileVisualizationArrays) {
		if arrays, err = b.ReadFile(FileVisualizationArrays); err != nil {
			return nil, err
		}
	}
	return NewSpecModel(interactions, visualizations, arrays, states, transitions)
}

// LoadScene reads and parses the bundle's scene export.
func (b *Bundle) LoadScene(m *Manifest) (*Scene, error) {
	data, err := b.ReadFile(m.Scene)
	if err != nil {
		return nil, err
	}
	return LoadScene(data)
}

// --- Screen content resolution ---

// imageExtensions and videoExtensions list the content forms probed for
// screen file names without an extension, in preference order.
var (
	imageExtensions = []string{".png", ".jpg", ".jpeg"}
	videoExtensions = []string{".mp4", ".webm"}
)

// ContentResolver returns a resolver that probes the bundle for screen
// content: the literal name, then image forms, then video forms. Names that
// look like URLs resolve to themselves without probing.
func (b *Bundle) ContentResolver() ContentResolver {
	return func(name string) (string, error) {
		if strings.Contains(name, "://") {
			return name, nil
		}
		tried := []string{name}
		if b.Exists(name) {
			return name, nil
		}
		base := strings.TrimSuffix(name, path.Ext(name))
		for _, ext := range append(imageExtensions, videoExtensions...) {
			candidate := base + ext
			if candidate == name {
				continue
			}
			tried = append(tried, candidate)
			if b.Exists(candidate) {
				return candidate, nil
			}
		}
		return "", &AssetNotFoundError{Name: name, Tried: tried}
	}
}
