// Package geom provides the coordinate-frame primitives used to place
// sampled particles in the global mesh.
//
// The package defines:
//
//   - [Vec3]: a point in double precision
//   - [Affine]: a 3×4 rotation + translation map from a local sampling plane
//     into global coordinates
//
// # Convention
//
// Transforms are stored row-major in the same 3×4 layout the CFD mesh
// tooling uses:
//
//	[[r00, r01, r02, tx],
//	 [r10, r11, r12, ty],
//	 [r20, r21, r22, tz]]
//
// and applied as row i = R[i][0]*x + R[i][1]*y + R[i][2]*z + T[i].
package geom
