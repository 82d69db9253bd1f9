package board

import (
	"math/bits"
	"testing"

	"github.com/matryer/is"
)

func eachBit(bb uint64, f func(idx int)) {
	for bb != 0 {
		f(bits.TrailingZeros64(bb))
		bb &= bb - 1
	}
}

func TestLineTableGeometry(t *testing.T) {
	is := is.New(t)
	for n := MinSize; n <= MaxSize; n++ {
		lt, err := NewLineTable(n)
		is.NoErr(err)
		lines := lt.Lines()
		is.Equal(len(lines), 2*n+2)

		for _, line := range lines {
			is.Equal(bits.OnesCount64(line), n)
		}
		for i := 0; i < n; i++ {
			eachBit(lines[i], func(idx int) { is.Equal(idx/n, i) })
			eachBit(lines[n+i], func(idx int) { is.Equal(idx%n, i) })
		}
		eachBit(lines[2*n], func(idx int) { is.Equal(idx%n, idx/n) })
		eachBit(lines[2*n+1], func(idx int) { is.Equal(idx%n, n-idx/n-1) })
	}
}

func TestLineTableThree(t *testing.T) {
	is := is.New(t)
	lt := MustLineTable(3)
	is.Equal(lt.Lines(), []uint64{
		0b000000111, 0b000111000, 0b111000000,
		0b001001001, 0b010010010, 0b100100100,
		0b100010001, 0b001010100,
	})
	is.Equal(lt.Full(), uint64(0b111111111))
	is.Equal(lt.NumSquares(), 9)
}

func TestLineTableEverySquareCovered(t *testing.T) {
	is := is.New(t)
	for n := MinSize; n <= MaxSize; n++ {
		lt := MustLineTable(n)
		lines := lt.Lines()
		for sq := 0; sq < n*n; sq++ {
			mask := uint64(1) << sq
			rows, cols, diags := 0, 0, 0
			for i, line := range lines {
				if line&mask == 0 {
					continue
				}
				switch {
				case i < n:
					rows++
				case i < 2*n:
					cols++
				default:
					diags++
				}
			}
			is.Equal(rows, 1)
			is.Equal(cols, 1)
			is.True(diags <= 2)
		}
	}
}

func TestLineTableBadSize(t *testing.T) {
	is := is.New(t)
	for _, n := range []int{-1, 0, 2, 9, 64} {
		_, err := NewLineTable(n)
		is.True(err != nil)
	}
}
