package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/petasbytes/go-meshedit/internal/volume"
)

// ReadOBJ parses the geometry subset of Wavefront OBJ: v, f and usemtl.
// Other statements are ignored. Face indices may be negative (relative) and
// may carry /vt/vn suffixes, which are dropped.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	material := ""
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", line)
			}
			var v volume.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				v[i] = f
			}
			m.addVertex(v)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", line)
			}
			verts := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := objIndex(tok, len(m.Vertices))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				verts = append(verts, idx)
			}
			m.Faces = append(m.Faces, Face{Verts: verts, Material: material})
		case "usemtl":
			material = strings.Join(fields[1:], " ")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	return m, nil
}

func objIndex(tok string, n int) (int, error) {
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		tok = tok[:i]
	}
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", tok)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("face index %d out of range (have %d vertices)", i, n)
}

// WriteOBJ writes m as Wavefront OBJ with usemtl groups for material changes.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", ff(v[0]), ff(v[1]), ff(v[2]))
	}
	material := ""
	for _, f := range m.Faces {
		if f.Material != material {
			material = f.Material
			fmt.Fprintf(bw, "usemtl %s\n", material)
		}
		bw.WriteString("f")
		for _, vi := range f.Verts {
			bw.WriteString(" " + strconv.Itoa(vi+1))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func ff(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
