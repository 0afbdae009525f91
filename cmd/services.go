package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/bank"
	"github.com/examprep/examprep/internal/history"
	"github.com/examprep/examprep/internal/llm"
	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/schedule"
	"github.com/examprep/examprep/internal/store"
	"github.com/examprep/examprep/internal/studyaid"
)

// services bundles everything a command may need, built over one store.
type services struct {
	store    *store.Store
	log      *logger.Logger
	bank     *bank.Cache
	history  *history.Service
	planner  *schedule.Service
	studyAid *studyaid.Service
}

// newServices opens the store and wires the domain services. When toFile
// is set, logs go to the configured log file (or examprep.log next to the
// database) instead of stderr.
func newServices(cmd *cobra.Command, toFile bool) (*services, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	logPath := ""
	if toFile {
		logPath = cfg.LogFile
		if logPath == "" {
			dbPath, _ := resolveDBPath(cmd)
			logPath = filepath.Join(filepath.Dir(dbPath), "examprep.log")
		}
	}
	log, err := logger.New(cfg.LogLevel, logPath)
	if err != nil {
		st.Close()
		return nil, err
	}

	policy, err := cfg.Policy()
	if err != nil {
		st.Close()
		return nil, err
	}

	hist := history.NewService(st.AnswerRepo(), log)
	return &services{
		store:    st,
		log:      log,
		bank:     bank.New(st.QuestionRepo()),
		history:  hist,
		planner:  schedule.NewService(hist, st.PlanRepo(), policy, log),
		studyAid: studyaid.NewService(newProvider(cmd.Context(), st, log), studyaid.DefaultConfig(), log),
	}, nil
}

// newProvider builds the configured LLM provider, or nil when the
// assistant is disabled or misconfigured.
func newProvider(ctx context.Context, st *store.Store, log *logger.Logger) llm.Provider {
	if ctx == nil {
		ctx = context.Background()
	}
	llmCfg, ok := cfg.LLMConfig()
	if !ok {
		log.Debug("no LLM provider configured, AI study aids use built-in fallbacks")
		return nil
	}
	p, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will use built-in fallbacks.")
		return nil
	}
	return p
}

func (s *services) Close() {
	s.log.Sync()
	s.store.Close()
}
