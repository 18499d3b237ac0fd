// Package di wires the cache store, invalidation dispatcher, data access
// modules, services, and actions into a single container. Tests and
// embedders construct isolated containers per instance; nothing here is
// process-global.
package di

import (
	"log/slog"
	"time"

	"github.com/GuRuGuMaWaRu/jobprep/action"
	"github.com/GuRuGuMaWaRu/jobprep/admission"
	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/dal"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/internal/cacheinfra"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/service"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
)

// Tables holds the storage capability for each entity kind. Any
// implementation of storage.Table works: bunstore for SQL, memstore for
// tests.
type Tables struct {
	Users      storage.Table[model.User]
	JobInfos   storage.Table[model.JobInfo]
	Interviews storage.Table[model.Interview]
	Questions  storage.Table[model.Question]
}

type options struct {
	logger    *slog.Logger
	keys      cache.KeySerializer
	admission admission.Checker
	feedback  service.FeedbackGenerator
	question  service.QuestionGenerator
	newID     func() string
	now       func() time.Time
}

// Option customizes a Container.
type Option func(*options)

// WithLogger sets the logger used for storage faults and action-boundary
// error detail.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithKeySerializer overrides the default cache key serializer.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(o *options) { o.keys = keys }
}

// WithAdmission sets the plan and rate admission checker for interview and
// question creation. The default admits everything.
func WithAdmission(checker admission.Checker) Option {
	return func(o *options) { o.admission = checker }
}

// WithFeedbackGenerator wires the generator behind interview feedback.
func WithFeedbackGenerator(g service.FeedbackGenerator) Option {
	return func(o *options) { o.feedback = g }
}

// WithQuestionGenerator wires the generator behind question creation.
func WithQuestionGenerator(g service.QuestionGenerator) Option {
	return func(o *options) { o.question = g }
}

// WithIDGenerator overrides entity id generation. Meant for tests that need
// deterministic ids.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithClock overrides the timestamp source. Meant for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Container owns one cache store and the full module graph built over it.
type Container struct {
	store      *cacheinfra.Store
	keys       cache.KeySerializer
	dispatcher *datacache.Dispatcher
	config     cache.Config

	userDAL      *dal.UserDAL
	jobInfoDAL   *dal.JobInfoDAL
	interviewDAL *dal.InterviewDAL
	questionDAL  *dal.QuestionDAL

	userSvc      *service.UserService
	jobInfoSvc   *service.JobInfoService
	interviewSvc *service.InterviewService
	questionSvc  *service.QuestionService

	users      *action.UserActions
	jobInfos   *action.JobInfoActions
	interviews *action.InterviewActions
	questions  *action.QuestionActions
}

// NewContainer builds a container over the given cache configuration and
// storage tables.
func NewContainer(config cache.Config, tables Tables, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.keys == nil {
		o.keys = cache.NewDefaultKeySerializer()
	}

	store, err := cacheinfra.New(config)
	if err != nil {
		return nil, err
	}
	dispatcher := datacache.NewDispatcher(store)

	deps := dal.Deps{
		Cache:      store,
		Keys:       o.keys,
		Revalidate: dispatcher,
		Logger:     o.logger,
		NewID:      o.newID,
		Now:        o.now,
	}

	c := &Container{
		store:      store,
		keys:       o.keys,
		dispatcher: dispatcher,
		config:     config,
	}

	c.userDAL = dal.NewUserDAL(tables.Users, deps)
	c.jobInfoDAL = dal.NewJobInfoDAL(tables.JobInfos, deps)
	c.interviewDAL = dal.NewInterviewDAL(tables.Interviews, tables.JobInfos, deps)
	c.questionDAL = dal.NewQuestionDAL(tables.Questions, tables.JobInfos, deps)

	c.userSvc = service.NewUserService(c.userDAL)
	c.jobInfoSvc = service.NewJobInfoService(c.jobInfoDAL)
	c.interviewSvc = service.NewInterviewService(c.interviewDAL, c.jobInfoSvc, c.userSvc, o.admission, o.feedback)
	c.questionSvc = service.NewQuestionService(c.questionDAL, c.jobInfoSvc, o.admission, o.question)

	c.users = action.NewUserActions(c.userSvc, o.logger)
	c.jobInfos = action.NewJobInfoActions(c.jobInfoSvc, o.logger)
	c.interviews = action.NewInterviewActions(c.interviewSvc, o.logger)
	c.questions = action.NewQuestionActions(c.questionSvc, o.logger)

	return c, nil
}

// NewContainerWithDefaults builds a container with the default cache
// configuration.
func NewContainerWithDefaults(tables Tables, opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), tables, opts...)
}

// NewContainerFromEnv builds a container with cache configuration read from
// CACHE_* environment variables.
func NewContainerFromEnv(tables Tables, opts ...Option) (*Container, error) {
	config, err := cache.FromEnv()
	if err != nil {
		return nil, err
	}
	return NewContainer(config, tables, opts...)
}

// Store returns the cache store for direct invalidation or inspection.
func (c *Container) Store() cache.TagStore { return c.store }

// KeySerializer returns the cache key serializer in use.
func (c *Container) KeySerializer() cache.KeySerializer { return c.keys }

// Dispatcher returns the write-event invalidation dispatcher.
func (c *Container) Dispatcher() *datacache.Dispatcher { return c.dispatcher }

// Config returns a copy of the cache configuration in use.
func (c *Container) Config() cache.Config { return c.config }

// Users returns the user action module.
func (c *Container) Users() *action.UserActions { return c.users }

// JobInfos returns the job info action module.
func (c *Container) JobInfos() *action.JobInfoActions { return c.jobInfos }

// Interviews returns the interview action module.
func (c *Container) Interviews() *action.InterviewActions { return c.interviews }

// Questions returns the question action module.
func (c *Container) Questions() *action.QuestionActions { return c.questions }

// UserService returns the user service beneath the actions.
func (c *Container) UserService() *service.UserService { return c.userSvc }

// JobInfoService returns the job info service beneath the actions.
func (c *Container) JobInfoService() *service.JobInfoService { return c.jobInfoSvc }

// InterviewService returns the interview service beneath the actions.
func (c *Container) InterviewService() *service.InterviewService { return c.interviewSvc }

// QuestionService returns the question service beneath the actions.
func (c *Container) QuestionService() *service.QuestionService { return c.questionSvc }
