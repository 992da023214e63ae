// Package sqlite registers the database/sql driver used for tuskmem
// databases. Connections get pragmas applied and a few vector helpers.
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"math"

	"github.com/mattn/go-sqlite3"
)

const DriverName = "sqlite3_tusk"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if _, err := conn.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;", nil); err != nil {
				return err
			}
			if err := conn.RegisterFunc("vec_dims", vecDims, true); err != nil {
				return err
			}
			return conn.RegisterFunc("vec_l2", vecL2, true)
		},
	})
}

// EncodeVector packs a vector as little-endian float32s.
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func DecodeVector(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec
}

func vecDims(blob []byte) int64 {
	return int64(len(blob) / 4)
}

// vecL2 returns the Euclidean distance, or -1 when dimensions differ.
func vecL2(a, b []byte) float64 {
	if len(a) != len(b) {
		return -1
	}
	va, vb := DecodeVector(a), DecodeVector(b)
	var sum float64
	for i := range va {
		d := float64(va[i] - vb[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
