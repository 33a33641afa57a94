// Package combine draws randomized avatar combinations from category pools
// and derives the stable identity each combination is named after.
package combine

import (
	"encoding/hex"
	"math/rand"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/user/avatarset/internal/scene"
	"github.com/user/avatarset/internal/tags"
)

// digestSize is the identity hash length in bytes; 16 hex characters.
const digestSize = 8

// Draw samples up to n unique combinations: one asset per category pool plus
// the entire mandatory pool, deduplicated as a set. The full cartesian
// product is materialized, shuffled with the injected source, and cut to n,
// so combinations are never repeated or invented beyond what the product
// yields. An empty factor pool yields an empty result, not an error; callers
// decide whether zero combinations is fatal.
func Draw(rng *rand.Rand, pools []*scene.Container, mandatory []*scene.Object, n int) [][]*scene.Object {
	if n <= 0 || len(pools) == 0 {
		return nil
	}
	lists := make([][]*scene.Object, len(pools))
	for i, pool := range pools {
		if len(pool.Objects) == 0 {
			return nil
		}
		lists[i] = pool.Objects
	}

	product := cartesian(lists)

	// Some assets may sit in the mandatory pool as well as in a category;
	// set semantics keep them once.
	combos := make([][]*scene.Object, len(product))
	for i, tuple := range product {
		combos[i] = dedupe(append(append([]*scene.Object{}, mandatory...), tuple...))
	}

	rng.Shuffle(len(combos), func(i, j int) {
		combos[i], combos[j] = combos[j], combos[i]
	})
	if n > len(combos) {
		n = len(combos)
	}
	return combos[:n]
}

// Identity derives the deterministic name of a combination:
// "set-<skeleton>-<digest>". Member names are sorted and space-joined before
// hashing, so the identity depends only on the member set, never on draw
// order. The skeleton tag is taken from the first member after sorting.
func Identity(members []*scene.Object) string {
	names := make([]string, len(members))
	for i, obj := range members {
		names[i] = obj.Name
	}
	sort.Strings(names)

	digest := hashNames(names)
	skeleton := ""
	if len(names) > 0 {
		skeleton = tags.SkeletonType(names[0])
	}
	return strings.Join([]string{"set", skeleton, digest}, tags.Sep)
}

func hashNames(sorted []string) string {
	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		// Only reachable with an invalid size or key; digestSize is fixed.
		panic(err)
	}
	h.Write([]byte(strings.Join(sorted, " ")))
	return hex.EncodeToString(h.Sum(nil))
}

// cartesian expands the product across the ordered pool lists, one
// representative per pool per tuple.
func cartesian(lists [][]*scene.Object) [][]*scene.Object {
	tuples := [][]*scene.Object{{}}
	for _, list := range lists {
		next := make([][]*scene.Object, 0, len(tuples)*len(list))
		for _, tuple := range tuples {
			for _, obj := range list {
				grown := make([]*scene.Object, len(tuple), len(tuple)+1)
				copy(grown, tuple)
				next = append(next, append(grown, obj))
			}
		}
		tuples = next
	}
	return tuples
}

func dedupe(objs []*scene.Object) []*scene.Object {
	seen := make(map[*scene.Object]bool, len(objs))
	out := objs[:0]
	for _, obj := range objs {
		if seen[obj] {
			continue
		}
		seen[obj] = true
		out = append(out, obj)
	}
	return out
}
