package services

import (
	"context"
	"time"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
	"github.com/leykun-gizaw/temar-sub000/app/locks"
	"github.com/leykun-gizaw/temar-sub000/app/notion"
	"github.com/leykun-gizaw/temar-sub000/app/repo"
	"github.com/leykun-gizaw/temar-sub000/global"
)

// Outcome names the terminal state of one reconcile run so workers can
// log every exit uniformly.
type Outcome string

const (
	OutcomeReconciled        Outcome = "reconciled"
	OutcomeMirrored          Outcome = "already_mirrored"
	OutcomeNoOwner           Outcome = "owner_not_linked"
	OutcomeNotPage           Outcome = "not_a_page"
	OutcomeUnclassified      Outcome = "unclassified"
	OutcomeOwnerMismatch     Outcome = "owner_mismatch"
	OutcomeLockBusy          Outcome = "lock_busy"
	OutcomeStoreFailed       Outcome = "store_failed"
	OutcomeFetchFailed       Outcome = "fetch_failed"
	OutcomeMaterializeFailed Outcome = "materialize_failed"
	OutcomePersistFailed     Outcome = "persist_failed"
)

// Benign reports whether the outcome is an expected early exit rather
// than a failure.
func (o Outcome) Benign() bool {
	switch o {
	case OutcomeReconciled, OutcomeMirrored, OutcomeNoOwner, OutcomeNotPage, OutcomeUnclassified, OutcomeOwnerMismatch, OutcomeLockBusy:
		return true
	default:
		return false
	}
}

// ReconcileService turns a page.created webhook into mirror rows:
// guard, resolve owner, fetch page, resolve parent chain, classify,
// materialize, persist. Only materialize and persist have side effects.
type ReconcileService struct {
	users        *repo.UserRepository
	mirror       *repo.MirrorRepository
	classifier   *ClassifierService
	materializer *MaterializerService
	clients      notion.Factory
	locker       locks.Locker
	lockTTL      time.Duration
}

func NewReconcileService(users *repo.UserRepository, mirror *repo.MirrorRepository, classifier *ClassifierService, materializer *MaterializerService, clients notion.Factory, locker locks.Locker, lockTTL time.Duration) *ReconcileService {
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &ReconcileService{
		users:        users,
		mirror:       mirror,
		classifier:   classifier,
		materializer: materializer,
		clients:      clients,
		locker:       locker,
		lockTTL:      lockTTL,
	}
}

func (s *ReconcileService) HandlePageCreated(ctx context.Context, ev dto.NotionEvent) (Outcome, error) {
	pageID := ev.Entity.ID

	exists, err := s.mirror.Exists(pageID)
	if err != nil {
		return OutcomeStoreFailed, err
	}
	if exists {
		return OutcomeMirrored, nil
	}

	user, err := s.users.FindByWorkspaceID(ev.WorkspaceID)
	if err != nil {
		return OutcomeStoreFailed, err
	}
	if user == nil {
		return OutcomeNoOwner, nil
	}

	api := s.clients(user.NotionToken)
	page, err := api.GetPage(ctx, pageID)
	if err != nil {
		return OutcomeFetchFailed, err
	}
	if !page.IsFull() {
		return OutcomeNotPage, nil
	}

	parentPageID, ok, err := s.parentPage(ctx, api, page.Parent)
	if err != nil {
		return OutcomeFetchFailed, err
	}
	if !ok {
		return OutcomeUnclassified, nil
	}

	cls, err := s.classifier.Classify(parentPageID)
	if err != nil {
		return OutcomeStoreFailed, err
	}
	if cls.Level == LevelNone {
		return OutcomeUnclassified, nil
	}
	if cls.UserID != user.ID {
		// the parent chain landed in another user's hierarchy; never
		// write rows under the delivering workspace's owner
		global.Logger.Warn().Str("page_id", pageID).Uint("workspace_user", user.ID).Uint("classified_user", cls.UserID).Msg("owner mismatch, delivery dropped")
		return OutcomeOwnerMismatch, nil
	}

	// Claim the classified parent before writing anything so sibling
	// deliveries under the same new parent don't race the cascade.
	lockKey := "reconcile:" + parentPageID
	acquired, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		global.Logger.Warn().Err(err).Str("page_id", pageID).Msg("lock acquire failed, proceeding unguarded")
	} else if !acquired {
		return OutcomeLockBusy, nil
	} else {
		defer func() { _ = s.locker.Release(context.Background(), lockKey) }()
	}

	plan, err := s.materializer.Materialize(ctx, api, user, cls, page)
	if err != nil {
		return OutcomeMaterializeFailed, err
	}
	if err := s.mirror.InsertPlan(plan); err != nil {
		// Notion is now ahead of the mirror with no automatic repair;
		// log distinctly from transient fetch failures.
		global.Logger.Error().Err(err).Str("page_id", pageID).Str("level", cls.Level.String()).Msg("mirror persist failed after materialization")
		return OutcomePersistFailed, err
	}
	return OutcomeReconciled, nil
}

// parentPage resolves the page id the classifier operates on. The
// classifier works on page ids, so a database or data-source parent is
// resolved one step further to the database's own parent page. A
// database whose parent is not a page is outside any tracked hierarchy.
func (s *ReconcileService) parentPage(ctx context.Context, api notion.API, parent notion.Parent) (string, bool, error) {
	switch parent.Kind {
	case notion.ParentPage:
		return parent.PageID, true, nil
	case notion.ParentDatabase, notion.ParentDataSource:
		db, err := api.GetDatabase(ctx, parent.DatabaseID)
		if err != nil {
			return "", false, err
		}
		if db.Parent.Kind != notion.ParentPage {
			return "", false, nil
		}
		return db.Parent.PageID, true, nil
	default:
		return "", false, nil
	}
}
