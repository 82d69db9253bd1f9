package board

import "math/bits"

// FindForced looks for a square the player to move must take: one that
// completes a line for them, or failing that one that stops the opponent
// from completing a line next turn. It returns 0 if there is none.
//
// A winning square is returned as soon as it is found, in table order. A
// blocking square is only remembered, since a later line may still hold a
// win; when several blocks exist the last one found is used.
func (b Board) FindForced() int {
	almost := b.lines.n - 1
	empty := b.Empty()
	forced := 0

	for _, line := range b.lines.lines {
		if empty&line == 0 {
			continue
		}
		if bits.OnesCount64(b.Tiles[b.Turn]&line) == almost {
			return bits.TrailingZeros64(empty&line) + 1
		} else if bits.OnesCount64(b.Tiles[b.Turn^1]&line) == almost {
			forced = bits.TrailingZeros64(empty&line) + 1
		}
	}
	return forced
}
