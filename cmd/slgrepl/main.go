// Command slgrepl is an interactive shell over a single forest: assert
// facts and rules, mark predicates coinductive, ask goals, and step
// through their answers one at a time.
//
// Commands:
//
//	fact HEAD.
//	rule HEAD :- GOAL, GOAL, ... .
//	coinductive NAME
//	ask GOAL.
//	next
//	stats
//	dump
//	help
//	quit
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/obslog"
	"github.com/gitrdm/slgforest/stdservices"
)

// session holds the one forest a slgrepl process drives, plus the
// bookkeeping needed to let "next" resume the query "ask" started.
type session struct {
	cfg  stdservices.Config
	svc  *stdservices.Services
	db   *stdservices.Database
	f        *engine.Forest
	last     engine.TableID
	idx      int
	hasQuery bool
}

func newSession() *session {
	cfg := stdservices.DefaultConfig()
	svc := stdservices.NewServices(cfg)
	db := stdservices.NewDatabase()
	log := obslog.New(os.Stderr)
	ecfg := engine.DefaultConfig()
	ecfg.Log = log
	f := engine.NewForest(ecfg, svc, stdservices.NewClauseSource(db))
	return &session{cfg: cfg, svc: svc, db: db, f: f}
}

func main() {
	fmt.Println("slgrepl -- tabled resolution shell. Type 'help' for commands.")
	s := newSession()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		s.dispatch(line)
		fmt.Print("> ")
	}
}

func (s *session) dispatch(line string) {
	if line == "" {
		return
	}
	cmd, rest := splitCommand(line)
	switch cmd {
	case "help":
		printHelp()
	case "quit", "exit":
		os.Exit(0)
	case "fact":
		s.doFact(rest)
	case "rule":
		s.doRule(rest)
	case "coinductive":
		s.doCoinductive(rest)
	case "ask":
		s.doAsk(rest)
	case "next":
		s.doNext()
	case "stats":
		s.doStats()
	case "dump":
		s.doDump()
	default:
		fmt.Printf("unknown command %q; type 'help'\n", cmd)
	}
}

func splitCommand(line string) (cmd, rest string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func printHelp() {
	fmt.Println(`commands:
  fact HEAD.                       assert a fact
  rule HEAD :- GOAL, GOAL, ... .   assert a rule
  coinductive NAME                 mark predicate NAME coinductive
  ask GOAL.                        start a query, print its first answer
  next                             print the next answer to the last query
  stats                            print forest-wide statistics
  dump                             print the last query's table state
  quit                             exit`)
}

func (s *session) doFact(rest string) {
	head, body, err := parseClause(rest)
	if err != nil {
		fmt.Printf("parse error: %v\n", err)
		return
	}
	if len(body) != 0 {
		fmt.Println("a fact has no body; use 'rule' instead")
		return
	}
	s.db.AssertFact(head)
	fmt.Println("ok")
}

func (s *session) doRule(rest string) {
	head, body, err := parseClause(rest)
	if err != nil {
		fmt.Printf("parse error: %v\n", err)
		return
	}
	if len(body) == 0 {
		fmt.Println("a rule needs a body; use 'fact' for unconditional clauses")
		return
	}
	s.db.AssertRule(head, body...)
	fmt.Println("ok")
}

func (s *session) doCoinductive(rest string) {
	name := strings.TrimSpace(rest)
	if name == "" {
		fmt.Println("usage: coinductive NAME")
		return
	}
	s.cfg.Coinductive[name] = true
	fmt.Println("ok")
}

func (s *session) doAsk(rest string) {
	goal, err := parseGoalLine(rest)
	if err != nil {
		fmt.Printf("parse error: %v\n", err)
		return
	}
	s.last = s.svc.Ask(s.f, goal)
	s.idx = 0
	s.hasQuery = true
	s.printAnswer()
}

func (s *session) doNext() {
	if !s.hasQuery {
		fmt.Println("no query in progress; use 'ask' first")
		return
	}
	s.printAnswer()
}

// printAnswer requests the current answer index, reports the outcome,
// and on success advances the index for the next 'next' call.
func (s *session) printAnswer() {
	ans, err := s.f.RootAnswer(s.last, s.idx)
	if err != nil {
		var fail *engine.RootSearchFail
		if errors.As(err, &fail) {
			fmt.Printf("%s\n", fail.Kind)
			return
		}
		fmt.Printf("error: %v\n", err)
		return
	}
	terms := s.svc.AnswerGoalTerms(ans.Subst)
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	fmt.Printf("answer %d: %s (ambiguous=%v delayed=%v)\n",
		s.idx, strings.Join(parts, ", "), ans.Ambiguous, s.svc.HasDelayedSubgoals(ans.Subst))
	s.idx++
}

func (s *session) doStats() {
	st := s.f.Stats()
	fmt.Printf("tables=%d answers=%d strands_retried=%d clock=%d floundered_tables=%d\n",
		st.Tables, st.Answers, st.StrandsRetried, st.ClockTicks, st.FlounderedTables)
}

func (s *session) doDump() {
	if !s.hasQuery {
		fmt.Println("no query in progress; use 'ask' first")
		return
	}
	fmt.Println(s.f.Dump(s.last))
}
