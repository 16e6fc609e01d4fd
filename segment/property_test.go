// Property-based tests for the segment algebra's associativity and
// identity laws: Draw small structured values with pgregory.net/rapid and
// assert the law holds for every generated case.
package segment_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vrpcore/localsearch/segment"
)

func genDistance(t *rapid.T, label string) segment.Distance {
	return segment.Distance{Distance: rapid.Int64Range(0, 1000).Draw(t, label)}
}

func TestDistanceMergeAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genDistance(t, "a")
		b := genDistance(t, "b")
		c := genDistance(t, "c")
		tAB := rapid.Int64Range(0, 500).Draw(t, "tAB")
		tBC := rapid.Int64Range(0, 500).Draw(t, "tBC")

		ab, err := segment.MergeDistance(tAB, a, b)
		if err != nil {
			t.Fatal(err)
		}
		left, err := segment.MergeDistance(tBC, ab, c)
		if err != nil {
			t.Fatal(err)
		}

		bc, err := segment.MergeDistance(tBC, b, c)
		if err != nil {
			t.Fatal(err)
		}
		right, err := segment.MergeDistance(tAB, a, bc)
		if err != nil {
			t.Fatal(err)
		}

		if left != right {
			t.Fatalf("associativity violated: (a.b).c=%+v a.(b.c)=%+v", left, right)
		}
	})
}

func genLoad(t *rapid.T, label string) segment.Load {
	delivery := rapid.Int64Range(0, 200).Draw(t, label+"_delivery")
	pickup := rapid.Int64Range(0, 200).Draw(t, label+"_pickup")
	return segment.LoadFromLocation(delivery, pickup)
}

func TestLoadMergeAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genLoad(t, "a")
		b := genLoad(t, "b")
		c := genLoad(t, "c")

		ab, err := segment.MergeLoad(a, b)
		if err != nil {
			t.Fatal(err)
		}
		left, err := segment.MergeLoad(ab, c)
		if err != nil {
			t.Fatal(err)
		}

		bc, err := segment.MergeLoad(b, c)
		if err != nil {
			t.Fatal(err)
		}
		right, err := segment.MergeLoad(a, bc)
		if err != nil {
			t.Fatal(err)
		}

		if left != right {
			t.Fatalf("associativity violated: (a.b).c=%+v a.(b.c)=%+v", left, right)
		}
	})
}

func genDuration(t *rapid.T, locIdx int, label string) segment.Duration {
	early := rapid.Int64Range(-200, 200).Draw(t, label+"_early")
	width := rapid.Int64Range(0, 200).Draw(t, label+"_width")
	service := rapid.Int64Range(0, 50).Draw(t, label+"_service")
	release := rapid.Int64Range(0, 50).Draw(t, label+"_release")
	return segment.DurationFromLocation(locIdx, service, early, early+width, release)
}

func TestDurationMergeAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genDuration(t, 0, "a")
		b := genDuration(t, 1, "b")
		c := genDuration(t, 2, "c")
		tAB := rapid.Int64Range(0, 200).Draw(t, "tAB")
		tBC := rapid.Int64Range(0, 200).Draw(t, "tBC")

		ab, err := segment.MergeDuration(tAB, a, b)
		if err != nil {
			t.Fatal(err)
		}
		left, err := segment.MergeDuration(tBC, ab, c)
		if err != nil {
			t.Fatal(err)
		}

		bc, err := segment.MergeDuration(tBC, b, c)
		if err != nil {
			t.Fatal(err)
		}
		right, err := segment.MergeDuration(tAB, a, bc)
		if err != nil {
			t.Fatal(err)
		}

		if left != right {
			t.Fatalf("associativity violated: (a.b).c=%+v a.(b.c)=%+v", left, right)
		}
	})
}

func TestDurationMergeIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genDuration(t, 0, "a")
		id := segment.IdentityDuration()

		left, err := segment.MergeDuration(0, id, a)
		if err != nil {
			t.Fatal(err)
		}
		if left != a {
			t.Fatalf("identity.merge(a) != a: %+v vs %+v", left, a)
		}

		right, err := segment.MergeDuration(0, a, id)
		if err != nil {
			t.Fatal(err)
		}
		if right != a {
			t.Fatalf("a.merge(identity) != a: %+v vs %+v", right, a)
		}
	})
}
