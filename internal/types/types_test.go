package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Convertible(t *testing.T) {
	testCases := []struct {
		name string
		from Primitive
		to   Primitive
		want bool
	}{
		{name: "Int to Float", from: Int, to: Float, want: true},
		{name: "Int to Bool", from: Int, to: Bool, want: true},
		{name: "Float to Int", from: Float, to: Int, want: true},
		{name: "Float to Bool", from: Float, to: Bool, want: true},
		{name: "Bool to Int", from: Bool, to: Int, want: true},
		{name: "Bool to Float", from: Bool, to: Float, want: true},
		{name: "String to anything is never convertible", from: String, to: Int, want: false},
		{name: "anything to String is never convertible", from: Int, to: String, want: false},
		{name: "a type to itself is defined false", from: Int, to: Int, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Convertible(tc.from, tc.to))
		})
	}
}

func Test_ConvertibleScalar(t *testing.T) {
	assert := assert.New(t)

	assert.True(ConvertibleScalar(Scalar(Int), Scalar(Float)))
	assert.True(ConvertibleScalar(Scalar(Int), Scalar(Int)))
	assert.False(ConvertibleScalar(Scalar(String), Scalar(Int)))
	assert.False(ConvertibleScalar(ArrayOf(Int), Scalar(Int)), "arrays never implicitly convert")
	assert.False(ConvertibleScalar(Scalar(Int), ArrayOf(Int)), "arrays never implicitly convert")
}

func Test_ConvertibleToBool(t *testing.T) {
	assert := assert.New(t)

	assert.True(ConvertibleToBool(Int))
	assert.True(ConvertibleToBool(Float))
	assert.True(ConvertibleToBool(Bool))
	assert.False(ConvertibleToBool(String))
}

func Test_PreferredBinary(t *testing.T) {
	testCases := []struct {
		name  string
		left  Type
		right Type
		want  Type
		ok    bool
	}{
		{name: "same scalar type", left: Scalar(Int), right: Scalar(Int), want: Scalar(Int), ok: true},
		{name: "Int and Float prefers Float", left: Scalar(Int), right: Scalar(Float), want: Scalar(Float), ok: true},
		{name: "Float and Int prefers Float", left: Scalar(Float), right: Scalar(Int), want: Scalar(Float), ok: true},
		{name: "Bool and Int prefers Int", left: Scalar(Bool), right: Scalar(Int), want: Scalar(Int), ok: true},
		{name: "Bool and Float prefers Float", left: Scalar(Bool), right: Scalar(Float), want: Scalar(Float), ok: true},
		{name: "String with Int has no preferred type", left: Scalar(String), right: Scalar(Int), ok: false},
		{name: "arrays never have a preferred type", left: ArrayOf(Int), right: ArrayOf(Int), ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			got, ok := PreferredBinary(tc.left, tc.right)
			assert.Equal(tc.ok, ok)
			if tc.ok {
				assert.Equal(tc.want, got)
			}
		})
	}
}

func Test_Type_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Int", Scalar(Int).String())
	assert.Equal("Array[Float]", ArrayOf(Float).String())
}

func Test_Type_Element(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Scalar(Bool), ArrayOf(Bool).Element())
	assert.Panics(func() { Scalar(Int).Element() })
}

func Test_ZeroValueKind(t *testing.T) {
	assert := assert.New(t)

	k, err := ZeroValueKind(String)
	assert.NoError(err)
	assert.Equal(ZeroString, k)

	_, err = ZeroValueKind(Primitive(99))
	assert.Error(err)
}
