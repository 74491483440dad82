package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/swell/config"
)

// VertexRecord is one row of a vertex CSV.
type VertexRecord struct {
	Index int     `csv:"index"`
	Row   int     `csv:"m"`
	Col   int     `csv:"n"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Z     float64 `csv:"z"`
}

// WriteVertexCSV writes a row-major vertex grid with cols columns, with a
// header row.
func WriteVertexCSV(w io.Writer, verts []mgl64.Vec3, cols int) error {
	records := make([]VertexRecord, len(verts))
	for i, v := range verts {
		records[i] = VertexRecord{
			Index: i,
			Row:   i / cols,
			Col:   i % cols,
			X:     v.X(),
			Y:     v.Y(),
			Z:     v.Z(),
		}
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing vertices: %w", err)
	}
	return nil
}

// ReadVertexCSV reads vertices written by WriteVertexCSV, in file order.
func ReadVertexCSV(r io.Reader) ([]mgl64.Vec3, error) {
	var records []VertexRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading vertices: %w", err)
	}
	verts := make([]mgl64.Vec3, len(records))
	for i, rec := range records {
		verts[i] = mgl64.Vec3{rec.X, rec.Y, rec.Z}
	}
	return verts, nil
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	statsFile *os.File
	perfFile  *os.File

	// Track if headers have been written
	statsHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a field stats record to frames.csv.
func (om *OutputManager) WriteStats(stats FieldStats) error {
	if om == nil {
		return nil
	}

	records := []FieldStats{stats}

	if !om.statsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		om.statsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}

	return nil
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(frame)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// WriteVertices saves one patch's vertex grid to vertices/<patch>_<frame>.csv.
func (om *OutputManager) WriteVertices(patch string, frame int, verts []mgl64.Vec3, cols int) error {
	if om == nil {
		return nil
	}

	dir := filepath.Join(om.dir, "vertices")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating vertices directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%06d.csv", patch, frame))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return WriteVertexCSV(f, verts, cols)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.statsFile != nil {
		if err := om.statsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
