package handlers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/services"
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	"insightmap-backend/domain/events"
	pkgerrors "insightmap-backend/pkg/errors"
)

// In-memory fakes for the persistence and fan-out ports. They mirror
// the real adapters' observable behavior: keyed overwrites, NotFound
// on missing rows, and replace-on-recast vote rows.

type fakeMapRepo struct {
	mu   sync.Mutex
	maps map[string]*aggregates.AffinityMap
}

func newFakeMapRepo() *fakeMapRepo {
	return &fakeMapRepo{maps: make(map[string]*aggregates.AffinityMap)}
}

func (r *fakeMapRepo) Save(ctx context.Context, m *aggregates.AffinityMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps[m.ID().String()] = m
	return nil
}

func (r *fakeMapRepo) GetByID(ctx context.Context, id valueobjects.MapID) (*aggregates.AffinityMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.maps[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Map")
	}
	return m, nil
}

func (r *fakeMapRepo) GetByProject(ctx context.Context, projectID string) ([]*aggregates.AffinityMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*aggregates.AffinityMap
	for _, m := range r.maps {
		if m.ProjectID() == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMapRepo) GetCurrent(ctx context.Context, projectID string) (*aggregates.AffinityMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.maps {
		if m.ProjectID() == projectID && m.IsCurrent() {
			return m, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("Current map")
}

func (r *fakeMapRepo) Delete(ctx context.Context, id valueobjects.MapID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.maps, id.String())
	return nil
}

type fakeProjectRepo struct {
	projects map[string]*entities.Project
}

func newFakeProjectRepo(projects ...*entities.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{projects: make(map[string]*entities.Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*entities.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Project")
	}
	return p, nil
}

type fakeConnectionRepo struct {
	conns          map[string]*entities.Connection
	deletedByGroup []string
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{conns: make(map[string]*entities.Connection)}
}

func (r *fakeConnectionRepo) Save(ctx context.Context, conn *entities.Connection) error {
	r.conns[conn.ID()] = conn
	return nil
}

func (r *fakeConnectionRepo) GetByID(ctx context.Context, id string) (*entities.Connection, error) {
	conn, ok := r.conns[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Connection")
	}
	return conn, nil
}

func (r *fakeConnectionRepo) GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]*entities.Connection, error) {
	var out []*entities.Connection
	for _, conn := range r.conns {
		if conn.MapID().Equals(mapID) {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) GetByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) ([]*entities.Connection, error) {
	var out []*entities.Connection
	for _, conn := range r.conns {
		if conn.MapID().Equals(mapID) && conn.Touches(groupID) {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) Delete(ctx context.Context, id string) error {
	delete(r.conns, id)
	return nil
}

func (r *fakeConnectionRepo) DeleteByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) error {
	r.deletedByGroup = append(r.deletedByGroup, groupID.String())
	for id, conn := range r.conns {
		if conn.MapID().Equals(mapID) && conn.Touches(groupID) {
			delete(r.conns, id)
		}
	}
	return nil
}

type fakeInsightRepo struct {
	insights map[string]*entities.Insight
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{insights: make(map[string]*entities.Insight)}
}

func (r *fakeInsightRepo) Save(ctx context.Context, insight *entities.Insight) error {
	r.insights[insight.ID()] = insight
	return nil
}

func (r *fakeInsightRepo) GetByID(ctx context.Context, id string) (*entities.Insight, error) {
	insight, ok := r.insights[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Insight")
	}
	return insight, nil
}

func (r *fakeInsightRepo) GetByProject(ctx context.Context, projectID string, limit, offset int) ([]*entities.Insight, int, error) {
	var out []*entities.Insight
	for _, insight := range r.insights {
		if insight.ProjectID() == projectID {
			out = append(out, insight)
		}
	}
	return out, len(out), nil
}

func (r *fakeInsightRepo) GetByInterview(ctx context.Context, interviewID string, limit, offset int) ([]*entities.Insight, int, error) {
	return nil, 0, nil
}

func (r *fakeInsightRepo) Delete(ctx context.Context, id string) error {
	delete(r.insights, id)
	return nil
}

type fakeUnitOfWork struct {
	repo  *fakeMapRepo
	calls int
}

func (u *fakeUnitOfWork) SaveNewCurrentMap(ctx context.Context, newMap *aggregates.AffinityMap, demote []*aggregates.AffinityMap) error {
	u.calls++
	for _, m := range demote {
		if err := u.repo.Save(ctx, m); err != nil {
			return err
		}
	}
	return u.repo.Save(ctx, newMap)
}

type fakeActivityRepo struct {
	entries []*entities.ActivityEntry
}

func (r *fakeActivityRepo) Append(ctx context.Context, entry *entities.ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) GetByMap(ctx context.Context, mapID valueobjects.MapID, limit int) ([]*entities.ActivityEntry, error) {
	var out []*entities.ActivityEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].MapID().Equals(mapID) {
			out = append(out, r.entries[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) actions() []entities.ActivityAction {
	out := make([]entities.ActivityAction, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action()
	}
	return out
}

type fakeNotificationRepo struct {
	saved []entities.Notification
}

func (r *fakeNotificationRepo) Save(ctx context.Context, n entities.Notification) error {
	r.saved = append(r.saved, n)
	return nil
}

func (r *fakeNotificationRepo) GetByUser(ctx context.Context, userID string, limit int) ([]entities.Notification, error) {
	var out []entities.Notification
	for _, n := range r.saved {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	for i, n := range r.saved {
		if n.ID == id && n.UserID == userID {
			r.saved[i].Read = true
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("Notification")
}

func (r *fakeNotificationRepo) recipients() []string {
	out := make([]string, len(r.saved))
	for i, n := range r.saved {
		out[i] = n.UserID
	}
	return out
}

type fakeVotingRepo struct {
	sessions map[string]*entities.VotingSession
	votes    map[string]entities.Vote
}

func newFakeVotingRepo() *fakeVotingRepo {
	return &fakeVotingRepo{
		sessions: make(map[string]*entities.VotingSession),
		votes:    make(map[string]entities.Vote),
	}
}

func (r *fakeVotingRepo) SaveSession(ctx context.Context, s *entities.VotingSession) error {
	r.sessions[s.ID()] = s
	return nil
}

func (r *fakeVotingRepo) GetSession(ctx context.Context, id string) (*entities.VotingSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Voting session")
	}
	return s, nil
}

func (r *fakeVotingRepo) GetActiveSessionsByProject(ctx context.Context, projectID string) ([]*entities.VotingSession, error) {
	var out []*entities.VotingSession
	for _, s := range r.sessions {
		if s.ProjectID() == projectID && s.IsActive() {
			out = append(out, s)
		}
	}
	return out, nil
}

// SaveVote keys rows by (session, user, group) so recasting replaces
// the previous allocation, matching the DynamoDB sort-key layout
func (r *fakeVotingRepo) SaveVote(ctx context.Context, v entities.Vote) error {
	r.votes[v.SessionID+"/"+v.UserID+"/"+v.GroupID.String()] = v
	return nil
}

func (r *fakeVotingRepo) GetVotesBySession(ctx context.Context, sessionID string) ([]entities.Vote, error) {
	var out []entities.Vote
	for _, v := range r.votes {
		if v.SessionID == sessionID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeSortingRepo struct {
	sessions map[string]*entities.SortingSession
}

func newFakeSortingRepo() *fakeSortingRepo {
	return &fakeSortingRepo{sessions: make(map[string]*entities.SortingSession)}
}

func (r *fakeSortingRepo) SaveSession(ctx context.Context, s *entities.SortingSession) error {
	r.sessions[s.ID()] = s
	return nil
}

func (r *fakeSortingRepo) GetSession(ctx context.Context, id string) (*entities.SortingSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Sorting session")
	}
	return s, nil
}

func (r *fakeSortingRepo) GetActiveByMap(ctx context.Context, mapID valueobjects.MapID) (*entities.SortingSession, error) {
	for _, s := range r.sessions {
		if s.MapID().Equals(mapID) && s.IsActive() {
			return s, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("Sorting session")
}

type fakeCommentRepo struct {
	comments map[string]*entities.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*entities.Comment)}
}

func (r *fakeCommentRepo) Save(ctx context.Context, c *entities.Comment) error {
	r.comments[c.ID()] = c
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Comment")
	}
	return c, nil
}

func (r *fakeCommentRepo) GetByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) ([]*entities.Comment, error) {
	var out []*entities.Comment
	for _, c := range r.comments {
		if c.MapID().Equals(mapID) && c.GroupID().Equals(groupID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]*entities.Comment, error) {
	var out []*entities.Comment
	for _, c := range r.comments {
		if c.MapID().Equals(mapID) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published int
}

func (p *fakePublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.published++
	return nil
}

func (p *fakePublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	p.published += len(evts)
	return nil
}

type fakeNotifier struct {
	mapUpdates int
	presence   int
}

func (n *fakeNotifier) BroadcastMapUpdated(ctx context.Context, mapID valueobjects.MapID) error {
	n.mapUpdates++
	return nil
}

func (n *fakeNotifier) BroadcastPresence(ctx context.Context, mapID valueobjects.MapID) error {
	n.presence++
	return nil
}

type fakePresenceStore struct {
	records map[string]entities.PresenceRecord
}

func newFakePresenceStore() *fakePresenceStore {
	return &fakePresenceStore{records: make(map[string]entities.PresenceRecord)}
}

func (s *fakePresenceStore) Upsert(ctx context.Context, record entities.PresenceRecord) error {
	s.records[record.MapID.String()+"/"+record.UserID] = record
	return nil
}

func (s *fakePresenceStore) Remove(ctx context.Context, mapID valueobjects.MapID, userID string) error {
	delete(s.records, mapID.String()+"/"+userID)
	return nil
}

func (s *fakePresenceStore) GetByMap(ctx context.Context, mapID valueobjects.MapID, excludeUserID string) ([]entities.PresenceRecord, error) {
	var out []entities.PresenceRecord
	for _, r := range s.records {
		if r.MapID.Equals(mapID) && r.UserID != excludeUserID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTypingStore struct {
	rows map[string]entities.TypingIndicator
}

func newFakeTypingStore() *fakeTypingStore {
	return &fakeTypingStore{rows: make(map[string]entities.TypingIndicator)}
}

func (s *fakeTypingStore) Upsert(ctx context.Context, indicator entities.TypingIndicator) error {
	s.rows[indicator.MapID.String()+"/"+indicator.UserID] = indicator
	return nil
}

func (s *fakeTypingStore) Get(ctx context.Context, mapID valueobjects.MapID, userID string) (entities.TypingIndicator, bool, error) {
	row, ok := s.rows[mapID.String()+"/"+userID]
	return row, ok, nil
}

func (s *fakeTypingStore) GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]entities.TypingIndicator, error) {
	var out []entities.TypingIndicator
	for _, row := range s.rows {
		if row.MapID.Equals(mapID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeTypingStore) Delete(ctx context.Context, mapID valueobjects.MapID, userID string) error {
	delete(s.rows, mapID.String()+"/"+userID)
	return nil
}

func (s *fakeTypingStore) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	removed := 0
	for key, row := range s.rows {
		if row.LastActivity.Before(olderThan) {
			delete(s.rows, key)
			removed++
		}
	}
	return removed, nil
}

// testEnv bundles the fakes behind a handler under test
type testEnv struct {
	maps          *fakeMapRepo
	projects      *fakeProjectRepo
	connections   *fakeConnectionRepo
	insights      *fakeInsightRepo
	uow           *fakeUnitOfWork
	activities    *fakeActivityRepo
	notifications *fakeNotificationRepo
	publisher     *fakePublisher
	notifier      *fakeNotifier
	activity      *services.ActivityService
	logger        *zap.Logger
}

func newTestEnv(projects ...*entities.Project) *testEnv {
	env := &testEnv{
		maps:          newFakeMapRepo(),
		projects:      newFakeProjectRepo(projects...),
		connections:   newFakeConnectionRepo(),
		insights:      newFakeInsightRepo(),
		activities:    &fakeActivityRepo{},
		notifications: &fakeNotificationRepo{},
		publisher:     &fakePublisher{},
		notifier:      &fakeNotifier{},
		logger:        zap.NewNop(),
	}
	env.uow = &fakeUnitOfWork{repo: env.maps}
	env.activity = services.NewActivityService(
		env.activities,
		env.notifications,
		env.projects,
		env.publisher,
		env.notifier,
		env.logger,
	)
	return env
}

func testProject(id, ownerID string, memberIDs ...string) *entities.Project {
	members := make([]entities.Member, len(memberIDs))
	for i, uid := range memberIDs {
		members[i] = entities.Member{UserID: uid, Role: entities.RoleEditor}
	}
	return &entities.Project{
		ID:      id,
		Name:    "Research",
		OwnerID: ownerID,
		Members: members,
	}
}
