package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/mesh"
	"github.com/petasbytes/go-meshedit/internal/metrics"
	"github.com/petasbytes/go-meshedit/internal/volume"
)

func newInspectCmd() *cobra.Command {
	var meshPath, volumeJSON string
	c := &cobra.Command{
		Use:   "inspect",
		Short: "Print mesh bounds, optionally resolving a volume",
		Long: `Inspect prints vertex and face counts and the world bounds of a mesh. With
--volume it also lists the vertices and faces the volume selects and whether
its center is near the mesh.

Example:
  meshedit inspect --mesh cube.obj --volume '{"type":"sphere","center_xyz":[0,0,1],"radius":0.5}'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			m, err := readMesh(meshPath)
			if err != nil {
				return err
			}
			src := mesh.Object{Name: meshPath, Mesh: m}
			st := metrics.Summarize(src)
			fmt.Fprintf(e.out, "vertices: %d\nfaces: %d\nbounds: %s .. %s\n",
				st.Vertices, st.Faces, command.FormatVec3(st.Min), command.FormatVec3(st.Max))
			if volumeJSON == "" {
				return nil
			}

			v := gjson.Parse(volumeJSON)
			if vi := v.Get("volume_identifier"); vi.Exists() {
				v = vi
			}
			d, err := command.ParseVolume(v)
			if err != nil {
				return err
			}
			verts, err := volume.SelectVertices(src, d)
			if err != nil {
				return err
			}
			faces, err := volume.SelectFaces(src, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "volume: %s at %s\nselected vertices: %v\nselected faces: %v\n",
				d.Kind, command.FormatVec3(d.Center), verts, faces)
			if !volume.WithinBounds(d.Center, st.Min, st.Max, e.cfg.BoundsTolerance) {
				e.warnf("volume center %s is outside mesh bounds", command.FormatVec3(d.Center))
			}
			return nil
		},
	}
	c.Flags().StringVar(&meshPath, "mesh", "", "input OBJ mesh")
	c.Flags().StringVar(&volumeJSON, "volume", "", "volume_identifier JSON to resolve")
	_ = c.MarkFlagRequired("mesh")
	return c
}
