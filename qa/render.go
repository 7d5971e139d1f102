package qa

import (
	"fmt"
	"strings"
)

// Render turns a Fact into a human-readable option string in the given tense.
// It is total over the closed vocabulary; unknown kinds fall back to a
// generic "kind(args...)" representation rather than failing. All phrasing
// decisions live here so that rewording options or adding tenses does not
// touch the rest of the pipeline.
func Render(f Fact, tense Tense) string {
	switch f.Kind {
	case FactPocketed:
		return pocketedText(tense)
	case FactPocketedIn:
		return pocketedInText(f.Color, tense)
	case FactNotPocketed:
		return notPocketedText(tense)
	case FactHitsZeroWalls:
		return hitsNWallsText(0, tense)
	case FactHitsOneWall:
		return hitsNWallsText(1, tense)
	case FactHitsNDiffWalls:
		return hitsDiffWallsText(f.Count, tense)
	case FactHitsSameWallNTimes:
		return hitsSameWallText(f.Count, tense)
	case FactFirstWallHit:
		return wallHitOrderText(1, f.Wall, tense)
	case FactSecondWallHit:
		return wallHitOrderText(2, f.Wall, tense)
	case FactThirdWallHit:
		return wallHitOrderText(3, f.Wall, tense)
	}
	return fmt.Sprintf("%s(%s)", f.Kind, strings.Join(factArgs(f), ", "))
}

// factArgs lists the set argument fields in canonical order, for the
// unknown-kind fallback.
func factArgs(f Fact) []string {
	var args []string
	if f.Color != "" {
		args = append(args, f.Color)
	}
	if f.Wall != "" {
		args = append(args, f.Wall)
	}
	if f.Count != 0 {
		args = append(args, fmt.Sprintf("%d", f.Count))
	}
	return args
}

func pocketedText(tense Tense) string {
	switch tense {
	case TenseFuture:
		return "The ball will be pocketed"
	case TenseConditional:
		return "The ball would be pocketed"
	}
	return "The ball was pocketed"
}

func pocketedInText(color string, tense Tense) string {
	switch tense {
	case TenseFuture:
		return fmt.Sprintf("The ball will be pocketed in the %s pocket", color)
	case TenseConditional:
		return fmt.Sprintf("The ball would be pocketed in the %s pocket", color)
	}
	return fmt.Sprintf("The ball was pocketed in the %s pocket", color)
}

func notPocketedText(tense Tense) string {
	switch tense {
	case TenseFuture:
		return "The ball will not be pocketed"
	case TenseConditional:
		return "The ball would not be pocketed"
	}
	return "The ball was not pocketed"
}

// hitVerb is shared by all wall-count phrasings.
func hitVerb(tense Tense) string {
	switch tense {
	case TenseFuture:
		return "will hit"
	case TenseConditional:
		return "would hit"
	}
	return "hits"
}

func hitsNWallsText(n int, tense Tense) string {
	unit := "walls"
	if n == 1 {
		unit = "wall"
	}
	return fmt.Sprintf("The ball %s %d %s", hitVerb(tense), n, unit)
}

func hitsDiffWallsText(n int, tense Tense) string {
	return fmt.Sprintf("The ball %s %d different walls", hitVerb(tense), n)
}

func hitsSameWallText(n int, tense Tense) string {
	return fmt.Sprintf("The ball %s the same wall %d times", hitVerb(tense), n)
}

func wallHitOrderText(order int, name string, tense Tense) string {
	prefix := "third"
	switch order {
	case 1:
		prefix = "first"
	case 2:
		prefix = "second"
	}

	mid := "hit was"
	switch tense {
	case TenseFuture:
		mid = "hit will be"
	case TenseConditional:
		mid = "hit would be"
	}
	return fmt.Sprintf("The %s wall %s %s", prefix, mid, name)
}
