package core

// TBN is an orthonormal tangent/bitangent/normal shading frame.
// In tangent space T is +X, B is +Y and N is +Z.
type TBN struct {
	T Vec3
	B Vec3
	N Vec3
}

// NewTBN builds a frame from a tangent and a normal; the bitangent is N x T
func NewTBN(tangent, normal Vec3) TBN {
	return TBN{
		T: tangent.Normalize(),
		B: normal.Cross(tangent).Normalize(),
		N: normal.Normalize(),
	}
}

// ToWorld transforms a tangent-space vector into scene space
func (f TBN) ToWorld(v Vec3) Vec3 {
	return f.T.Multiply(v.X).Add(f.B.Multiply(v.Y)).Add(f.N.Multiply(v.Z))
}
