package cli

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"searchapi/internal/limitpack"
	"searchapi/internal/textsearch"
)

// benchMarker is what every keyword is rewritten to during the
// substitution leg, so the regexp and the automaton produce comparable
// output.
const benchMarker = "_keyword_"

func newBenchCmd() *cobra.Command {
	var (
		words   int
		maxKeys int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Race the automaton against compiled regular expressions",
		Long: `Generates a random-word story and measures keyword substitution and
matching over it, comparing the automaton against a compiled alternation
regexp across a ladder of keyword counts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, words, maxKeys, seed)
		},
	}

	cmd.Flags().IntVar(&words, "words", 200000, "words in the generated story")
	cmd.Flags().IntVar(&maxKeys, "max-keys", 9000, "largest keyword count to measure")
	cmd.Flags().Int64Var(&seed, "seed", 0, "corpus seed, 0 derives one from the clock")

	return cmd
}

func runBench(cmd *cobra.Command, words, maxKeys int, seed int64) error {
	logger := loggerFromContext(cmd.Context())

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// The pool is larger than the story so keyword draws include words the
	// story does not contain.
	pool := words + 100
	if pool < 100000 {
		pool = 100000
	}
	all := make([]string, pool)
	for i := range all {
		all[i] = randomWord(rng)
	}
	logger.Debug("corpus ready", "pool", pool, "words", words, "seed", seed)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Keys   | Length    |     Regex |     Subst |     Match")
	fmt.Fprintln(out, "------------------------------------------------------")

	for _, count := range benchSteps(maxKeys) {
		story := strings.Join(sample(rng, all, words), " ")
		keywords := uniqueSample(rng, all, count)
		logger.Debug("story built", "keys", len(keywords), "preview", limitpack.Clip(story, 40))

		escaped := make([]string, len(keywords))
		for i, kw := range keywords {
			escaped[i] = regexp.QuoteMeta(kw)
		}
		re, err := regexp.Compile(strings.Join(escaped, "|"))
		if err != nil {
			return fmt.Errorf("compile regexp: %w", err)
		}

		searcher := textsearch.New()
		for _, kw := range keywords {
			if err := searcher.AddKeyword(kw, benchMarker); err != nil {
				return fmt.Errorf("add keyword %q: %w", kw, err)
			}
		}
		if err := searcher.Compile(); err != nil {
			return fmt.Errorf("compile searcher: %w", err)
		}

		t0 := time.Now()
		re.ReplaceAllString(story, benchMarker)
		t1 := time.Now()
		if _, err := searcher.Substitute(story); err != nil {
			return fmt.Errorf("substitute: %w", err)
		}
		t2 := time.Now()
		if _, err := searcher.Match(story); err != nil {
			return fmt.Errorf("match: %w", err)
		}
		t3 := time.Now()

		fmt.Fprintf(out, "%-6d | %-9d | %9.5f | %9.5f | %9.5f\n",
			len(keywords), len(story),
			t1.Sub(t0).Seconds(), t2.Sub(t1).Seconds(), t3.Sub(t2).Seconds())
	}
	return nil
}

// benchSteps is the keyword-count ladder the benchmark walks: fine steps
// while automata are small, coarser as they grow.
func benchSteps(max int) []int {
	var steps []int
	add := func(from, to, by int) {
		for n := from; n < to && n <= max; n += by {
			steps = append(steps, n)
		}
	}
	add(1, 100, 10)
	add(100, 1000, 100)
	add(1000, 10000, 1000)
	return steps
}

// randomWord draws a lowercase word of three to eight letters.
func randomWord(rng *rand.Rand) string {
	b := make([]byte, 3+rng.Intn(6))
	for i := range b {
		b[i] = byte('a' + rng.Intn(26))
	}
	return string(b)
}

// sample draws n distinct positions from pool via a partial shuffle of a
// copy. The words themselves may still repeat, the pool is not deduped.
func sample(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]string, len(pool))
	copy(picked, pool)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}

// uniqueSample dedupes the drawn words. Short random words collide, so the
// result may come up smaller than n; the table reports the real count.
func uniqueSample(rng *rand.Rand, pool []string, n int) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for _, w := range sample(rng, pool, n) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
