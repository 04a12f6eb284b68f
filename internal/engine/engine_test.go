package engine

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"chatbot/internal/chunker"
	"chatbot/internal/corpus"
	"chatbot/internal/domain"
	"chatbot/internal/embedding/tfidf"
)

const profile = "John Doe is a software engineer. He has 5 years of experience in backend systems. His projects include a chat application."

func build(t *testing.T, text string) *corpus.Index {
	t.Helper()
	seg, err := chunker.NewSentenceSegmenter()
	if err != nil {
		t.Fatalf("new segmenter: %v", err)
	}
	ix, err := corpus.NewBuilder(seg, tfidf.DefaultOptions()).BuildFromText(text)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return ix
}

func isFallback(cfg Config, s string) bool {
	for _, f := range cfg.Fallbacks {
		if s == f {
			return true
		}
	}
	return false
}

func TestRespond_ProfileScenario(t *testing.T) {
	e := New(build(t, profile), DefaultConfig())

	if got := e.Respond("What is his experience?"); got != "He has 5 years of experience in backend systems." {
		t.Fatalf("experience answer = %q", got)
	}
	if got := e.Respond(""); got != DefaultEmptyPrompt {
		t.Fatalf("empty answer = %q", got)
	}
	if got := e.Respond("zzqx qqzz"); !isFallback(e.Config(), got) {
		t.Fatalf("unknown words answer = %q, want a fallback", got)
	}
}

func TestRespond_BlankInputAlwaysPrompts(t *testing.T) {
	for _, doc := range []string{profile, "", "Rust rocks."} {
		e := New(build(t, doc), DefaultConfig())
		for _, q := range []string{"", "   ", "\n\t "} {
			if got := e.Respond(q); got != DefaultEmptyPrompt {
				t.Fatalf("Respond(%q) = %q", q, got)
			}
		}
	}
}

func TestRespond_StopWordsOnlyFallsBack(t *testing.T) {
	e := New(build(t, profile), DefaultConfig())
	for i := 0; i < 20; i++ {
		a := e.Explain("the and of!!")
		if a.Kind != domain.AnswerFallback || !isFallback(e.Config(), a.Text) {
			t.Fatalf("answer = %+v, want fallback", a)
		}
		if a.Score != 0 {
			t.Fatalf("score = %f, want 0", a.Score)
		}
	}
}

func TestRespond_VerbatimSentence(t *testing.T) {
	e := New(build(t, profile), DefaultConfig())
	got := e.Respond("His projects include a chat application")
	if got != "His projects include a chat application." {
		t.Fatalf("got %q", got)
	}
}

func TestRespond_TieGoesToLowerIndex(t *testing.T) {
	e := New(build(t, "Rust rocks. Rust, rocks!"), DefaultConfig())
	a := e.Explain("rust")
	if a.UnitIndex != 0 || a.Text != "Rust rocks." {
		t.Fatalf("answer = %+v, want first sentence", a)
	}
}

func TestRespond_Idempotent(t *testing.T) {
	e := New(build(t, profile), DefaultConfig())
	first := e.Respond("backend experience")
	for i := 0; i < 5; i++ {
		if got := e.Respond("backend experience"); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}

func TestRespond_InjectedPicker(t *testing.T) {
	cfg := DefaultConfig()
	e := New(build(t, profile), cfg, WithPicker(func(n int) int { return 2 }))
	if got := e.Respond("zzqx"); got != cfg.Fallbacks[2] {
		t.Fatalf("got %q, want %q", got, cfg.Fallbacks[2])
	}
	out := New(build(t, profile), cfg, WithPicker(func(n int) int { return n + 7 }))
	if got := out.Respond("zzqx"); got != cfg.Fallbacks[0] {
		t.Fatalf("out-of-range pick: got %q", got)
	}
}

func TestRespond_CustomFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fallbacks = []string{"Only this."}
	e := New(build(t, profile), cfg)
	if got := e.Respond("zzqx"); got != "Only this." {
		t.Fatalf("got %q", got)
	}
	cfg.Fallbacks = nil
	e = New(build(t, profile), cfg)
	if got := e.Respond("zzqx"); !isFallback(DefaultConfig(), got) {
		t.Fatalf("empty fallback set should use defaults, got %q", got)
	}
}

// longProfile builds ten sentences with disjoint vocabularies, padded with
// stop words so the whole document exceeds the length cutoff.
func longProfile() (string, []string) {
	var sentences, keywords []string
	for i := 0; i < 10; i++ {
		s := string(rune('a' + i))
		sentences = append(sentences, fmt.Sprintf("Alpha%s bravo%s charlie%s and it was there with them again and again.", s, s, s))
		keywords = append(keywords, "alpha"+s)
	}
	return strings.Join(sentences, " "), keywords
}

func TestRespond_OversizeMatchIsRefined(t *testing.T) {
	doc, keywords := longProfile()
	if len(doc) <= DefaultMaxResponseLength {
		t.Fatalf("test document too short: %d", len(doc))
	}
	ix := build(t, doc)
	e := New(ix, DefaultConfig())
	a := e.Explain(strings.Join(keywords, " "))
	if a.Kind != domain.AnswerRefined {
		t.Fatalf("kind = %s, want refined (answer %+v)", a.Kind, a)
	}
	if a.Text != ix.Units[0].Text || a.UnitIndex != 0 {
		t.Fatalf("refined to %+v, want first sentence", a)
	}
}

func TestRespond_RefinementPrefersMostKeywords(t *testing.T) {
	doc, keywords := longProfile()
	ix := build(t, doc)
	e := New(ix, DefaultConfig())
	// bravof adds a second keyword hit for the sixth sentence.
	a := e.Explain(strings.Join(keywords, " ") + " bravof")
	if a.Kind != domain.AnswerRefined || a.UnitIndex != 5 {
		t.Fatalf("answer = %+v, want sentence 5", a)
	}
}

func TestRespond_RefinementMatchesSubstrings(t *testing.T) {
	doc, keywords := longProfile()
	doc = strings.Replace(doc, "charlief and", "charlief engineer and", 1)
	ix := build(t, doc)
	e := New(ix, DefaultConfig())
	// "engine" is not a vocabulary term but is contained in "engineer".
	a := e.Explain(strings.Join(keywords, " ") + " engine")
	if a.Kind != domain.AnswerRefined || a.UnitIndex != 5 {
		t.Fatalf("answer = %+v, want sentence 5", a)
	}
	if !strings.Contains(a.Text, "engineer") {
		t.Fatalf("refined to %q", a.Text)
	}
}

func TestRespond_ScoreAtThresholdFallsBack(t *testing.T) {
	ix := build(t, profile)
	const q = "What is his experience?"
	score := New(ix, DefaultConfig()).Explain(q).Score
	if score <= DefaultThreshold {
		t.Fatalf("score %f should clear the default threshold", score)
	}

	cfg := DefaultConfig()
	cfg.Threshold = score
	if a := New(ix, cfg).Explain(q); a.Kind != domain.AnswerFallback || !isFallback(cfg, a.Text) {
		t.Fatalf("score equal to threshold: answer = %+v, want fallback", a)
	}

	cfg.Threshold = math.Nextafter(score, 0)
	a := New(ix, cfg).Explain(q)
	if a.Kind != domain.AnswerMatch || a.Text != "He has 5 years of experience in backend systems." {
		t.Fatalf("score just above threshold: answer = %+v, want match", a)
	}
}

func TestNew_ZeroThresholdMeansDefault(t *testing.T) {
	ix := build(t, profile)
	for _, th := range []float64{0, -0.5} {
		if got := New(ix, Config{Threshold: th}).Config().Threshold; got != DefaultThreshold {
			t.Fatalf("threshold %v resolved to %v, want %v", th, got, DefaultThreshold)
		}
	}
	if got := New(ix, Config{Threshold: 0.2}).Config().Threshold; got != 0.2 {
		t.Fatalf("explicit threshold changed to %v", got)
	}
}

func TestRespond_AbbreviationBeforeSentenceStart(t *testing.T) {
	e := New(build(t, "John Doe was a senior engineer at Acme Inc. He built the payments platform there."), DefaultConfig())
	if got := e.Respond("Tell me about the payments platform"); got != "He built the payments platform there." {
		t.Fatalf("got %q", got)
	}
}

type fixedSegmenter []string

func (f fixedSegmenter) Split(string) []string { return []string(f) }

func TestRespond_OversizeWithoutKeywordOverlap(t *testing.T) {
	doc := strings.Repeat("Quasar telemetry and it was there again. ", 20)
	ix, err := corpus.NewBuilder(fixedSegmenter{"Unrelated short line."}, tfidf.DefaultOptions()).BuildFromText(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	e := New(ix, DefaultConfig())
	a := e.Explain("quasar")
	if a.Kind != domain.AnswerOversize {
		t.Fatalf("kind = %s, want oversize", a.Kind)
	}
	if a.Text != strings.TrimSpace(doc) {
		t.Fatal("oversize match should be returned unmodified")
	}
}

func TestRespond_DegradedCorpus(t *testing.T) {
	e := New(build(t, corpus.Placeholder), DefaultConfig())
	if got := e.Respond("what are your skills?"); !isFallback(e.Config(), got) {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestRespond_NeverEmpty(t *testing.T) {
	e := New(build(t, profile), DefaultConfig())
	for _, q := range []string{"?", "!!!", "John", "JOHN DOE", "ünïcödé", "a", strings.Repeat("x ", 1000), "software engineer chat"} {
		if got := e.Respond(q); got == "" {
			t.Fatalf("Respond(%q) returned empty string", q)
		}
	}
}

func TestRespond_Concurrent(t *testing.T) {
	e := New(build(t, profile), DefaultConfig())
	want := e.Respond("What is his experience?")
	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := e.Respond("What is his experience?"); got != want {
				errs <- got
			}
			_ = e.Respond("zzqx")
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("concurrent answer %q != %q", got, want)
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("What's   his C++ experience?\tÜber")
	want := "what s   his c   experience \t ber"
	if got != want {
		t.Fatalf("Preprocess = %q, want %q", got, want)
	}
}
