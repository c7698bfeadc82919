package ics23

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyNoPrefix(t *testing.T) {
	data := []byte("hello")
	out, err := Apply(NoPrefix, data)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestApplyVarProto(t *testing.T) {
	data := make([]byte, 300)
	out, err := Apply(VarProto, data)
	require.NoError(t, err)

	n, read := binary.Uvarint(out)
	require.NotZero(t, read)
	require.EqualValues(t, len(data), n)
	require.Equal(t, data, out[read:])
}

func TestApplyRequire32Bytes(t *testing.T) {
	ok := make([]byte, 32)
	out, err := Apply(Require32Bytes, ok)
	require.NoError(t, err)
	require.Equal(t, ok, out)

	_, err = Apply(Require32Bytes, make([]byte, 31))
	require.Error(t, err)
	var lenErr *RequiredLengthError
	require.ErrorAs(t, err, &lenErr)
	require.Equal(t, 32, lenErr.Want)
	require.Equal(t, 31, lenErr.Got)
}

func TestApplyRequire64Bytes(t *testing.T) {
	_, err := Apply(Require64Bytes, make([]byte, 65))
	require.Error(t, err)

	out, err := Apply(Require64Bytes, make([]byte, 64))
	require.NoError(t, err)
	require.Len(t, out, 64)
}

func TestApplyFixed32Little(t *testing.T) {
	data := []byte("payload")
	out, err := Apply(Fixed32Little, data)
	require.NoError(t, err)
	require.EqualValues(t, len(data), binary.LittleEndian.Uint32(out[:4]))
	require.Equal(t, data, out[4:])
}

func TestApplyUnsupported(t *testing.T) {
	for _, op := range []LengthOp{VarRlp, Fixed32Big, Fixed64Big, Fixed64Little, LengthOp(99)} {
		_, err := Apply(op, []byte("x"))
		require.Error(t, err)
		var unsupported *UnsupportedOpError
		require.ErrorAs(t, err, &unsupported)
	}
}
