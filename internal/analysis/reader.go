package analysis

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/breathseed/internal/geom"
	"github.com/san-kum/breathseed/internal/record"
)

type Particle struct {
	ID      int
	Pos     geom.Vec3
	Time    float64 // release time in seconds, full schema only
	HasTime bool
}

type File struct {
	Schema    record.Schema
	Particles []Particle
}

func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses either record schema. Comment and blank lines are skipped;
// mixing schemas in one stream is an error.
func Read(r io.Reader) (*File, error) {
	out := &File{Particles: make([]Particle, 0)}
	schemaSet := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var (
			p      Particle
			schema record.Schema
			err    error
		)
		if strings.HasPrefix(line, "v,") {
			schema = record.Compact
			p, err = parseCompact(line)
		} else {
			schema = record.Full
			p, err = parseFull(line)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if !schemaSet {
			out.Schema = schema
			schemaSet = true
		} else if schema != out.Schema {
			return nil, fmt.Errorf("line %d: %s record in a %s file", lineNo, schema, out.Schema)
		}
		out.Particles = append(out.Particles, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseFull(line string) (Particle, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 10 {
		return Particle{}, fmt.Errorf("full record needs 10 fields, got %d", len(fields))
	}

	var p Particle
	for i := 0; i < 3; i++ {
		v, err := parseFloat(fields[i])
		if err != nil {
			return Particle{}, err
		}
		p.Pos[i] = v
	}

	t, err := parseFloat(fields[6])
	if err != nil {
		return Particle{}, err
	}
	p.Time = t
	p.HasTime = true

	p.ID, err = strconv.Atoi(strings.TrimSpace(fields[9]))
	if err != nil {
		return Particle{}, fmt.Errorf("bad id: %w", err)
	}
	return p, nil
}

func parseCompact(line string) (Particle, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return Particle{}, fmt.Errorf("compact record needs 5 fields, got %d", len(fields))
	}

	var p Particle
	id, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Particle{}, fmt.Errorf("bad id: %w", err)
	}
	p.ID = id
	for i := 0; i < 3; i++ {
		v, err := parseFloat(fields[i+2])
		if err != nil {
			return Particle{}, err
		}
		p.Pos[i] = v
	}
	return p, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return v, nil
}
