// Package service implements the chat widget's business logic: the chat
// turn pipeline, document ingestion, and the knowledge base lifecycle.
package service

import (
	"sync"

	"github.com/twistandthread/chatwidget/internal/adapter/llm"
	"github.com/twistandthread/chatwidget/internal/config"
	"github.com/twistandthread/chatwidget/internal/repository"
	"github.com/twistandthread/chatwidget/internal/retrieval"
	"github.com/twistandthread/chatwidget/policy"
)

// historyLimit is the number of trailing messages passed to the
// completion model as conversation history.
const historyLimit = 6

// Service wires the store, the LLM service, the ranker and the upload
// policy into the request-level operations.
type Service struct {
	store  repository.Store
	llm    llm.Service
	ranker *retrieval.Ranker
	policy *policy.Engine
	cfg    *config.Config

	kbMu            sync.RWMutex
	knowledgeBaseID int // 0 means not initialized
}

// New creates a new service.
func New(store repository.Store, llmService llm.Service, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		llm:    llmService,
		ranker: retrieval.NewRanker(llmService),
		policy: policyEngine,
		cfg:    cfg,
	}
}

// Store exposes the underlying store, mainly for tests.
func (s *Service) Store() repository.Store { return s.store }
