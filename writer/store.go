package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Store lays out one directory per run under BaseDir
type Store struct {
	BaseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{BaseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.BaseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Model          string             `json:"model"`
	Timestamp      time.Time          `json:"timestamp"`
	Nx             int                `json:"nx"`
	Ny             int                `json:"ny"`
	Flux           string             `json:"flux"`
	Reconstruction string             `json:"reconstruction"`
	Integrator     string             `json:"integrator"`
	CFL            float64            `json:"cfl"`
	FinalTime      float64            `json:"final_time"`
	Steps          int                `json:"steps"`
	WallSeconds    float64            `json:"wall_seconds"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

type Run struct {
	ID  string
	Dir string
}

// NewRun creates the run directory and records the input parameters as YAML
func (s *Store) NewRun(model string, input interface{}) (r *Run, err error) {
	id := fmt.Sprintf("%s_%s", model, uuid.NewString()[:8])
	r = &Run{ID: id, Dir: filepath.Join(s.BaseDir, id)}
	if err = os.MkdirAll(r.Dir, 0755); err != nil {
		return nil, err
	}
	if input != nil {
		var data []byte
		if data, err = yaml.Marshal(input); err != nil {
			return nil, err
		}
		if err = os.WriteFile(filepath.Join(r.Dir, "input.yaml"), data, 0644); err != nil {
			return nil, err
		}
	}
	return
}

func (r *Run) SaveMetadata(meta RunMetadata) (err error) {
	var f *os.File
	meta.ID = r.ID
	if f, err = os.Create(filepath.Join(r.Dir, "metadata.json")); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns the metadata of every completed run, oldest first
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}
	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.BaseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}
