package store

import (
	"database/sql"
	"fmt"

	"github.com/rewardjar/rewardjar/internal/model"
)

type TaskStore struct {
	db     *sql.DB
	notify *Notifier
}

func NewTaskStore(db *sql.DB, notify *Notifier) *TaskStore {
	return &TaskStore{db: db, notify: notify}
}

// --- Task methods ---

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var assignedKid sql.NullString
	var active int
	var createdAt int64

	err := scanner.Scan(
		&t.ID, &t.HouseholdID, &t.Title, &t.Points, &t.Icon,
		&t.Category, &assignedKid, &active, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedKid.Valid {
		t.AssignedKidID = &assignedKid.String
	}
	t.Active = active != 0
	t.CreatedAt = fromMillis(createdAt)
	return &t, nil
}

const taskCols = `id, household_id, title, points, icon, category, assigned_kid_id, active, created_at`

func validateTask(title string, points int, category model.TaskCategory) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if points <= 0 {
		return &ValidationError{Field: "points", Reason: "must be positive"}
	}
	if category != model.CategoryHousehold && category != model.CategoryPersonal {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}
	return nil
}

func (s *TaskStore) Create(t *model.Task) error {
	if t.Category == "" {
		t.Category = model.CategoryHousehold
	}
	if err := validateTask(t.Title, t.Points, t.Category); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}

	dup, err := idExists(s.db, "tasks", t.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("task %s: %w", t.ID, ErrDuplicateKey)
	}

	var assignedKid sql.NullString
	if t.AssignedKidID != nil {
		assignedKid = sql.NullString{String: *t.AssignedKidID, Valid: true}
	}
	var active int
	if t.Active {
		active = 1
	}

	_, err = s.db.Exec(
		`INSERT INTO tasks (id, household_id, title, points, icon, category, assigned_kid_id, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.HouseholdID, t.Title, t.Points, t.Icon, t.Category, assignedKid, active, toMillis(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	s.notify.Publish(Change{Table: TableTasks, Action: ActionCreate, ID: t.ID})
	return nil
}

func (s *TaskStore) GetByID(id string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) List(householdID string) ([]model.Task, error) {
	return s.queryTasks(`SELECT `+taskCols+` FROM tasks WHERE household_id = ? ORDER BY rowid`, householdID)
}

// ListActive returns tasks that have not been soft-hidden. Inactive tasks
// stay queryable through List and GetByID for history reconstruction.
func (s *TaskStore) ListActive(householdID string) ([]model.Task, error) {
	return s.queryTasks(
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? AND active = 1 ORDER BY rowid`,
		householdID,
	)
}

func (s *TaskStore) ListByCategory(householdID string, category model.TaskCategory) ([]model.Task, error) {
	return s.queryTasks(
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? AND category = ? ORDER BY rowid`,
		householdID, category,
	)
}

func (s *TaskStore) ListByAssignedKid(kidID string) ([]model.Task, error) {
	return s.queryTasks(`SELECT `+taskCols+` FROM tasks WHERE assigned_kid_id = ? ORDER BY rowid`, kidID)
}

func (s *TaskStore) ListAll() ([]model.Task, error) {
	return s.queryTasks(`SELECT ` + taskCols + ` FROM tasks ORDER BY rowid`)
}

func (s *TaskStore) queryTasks(query string, args ...any) ([]model.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id, title string, points int, icon string, category model.TaskCategory, assignedKidID *string) (*model.Task, error) {
	if err := validateTask(title, points, category); err != nil {
		return nil, err
	}

	var assignedKid sql.NullString
	if assignedKidID != nil {
		assignedKid = sql.NullString{String: *assignedKidID, Valid: true}
	}

	result, err := s.db.Exec(
		`UPDATE tasks SET title = ?, points = ?, icon = ?, category = ?, assigned_kid_id = ? WHERE id = ?`,
		title, points, icon, category, assignedKid, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	s.notify.Publish(Change{Table: TableTasks, Action: ActionUpdate, ID: id})
	return s.GetByID(id)
}

// SetActive soft-hides or restores a task without touching its history.
func (s *TaskStore) SetActive(id string, active bool) (*model.Task, error) {
	var a int
	if active {
		a = 1
	}

	result, err := s.db.Exec(`UPDATE tasks SET active = ? WHERE id = ?`, a, id)
	if err != nil {
		return nil, fmt.Errorf("set task active: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	s.notify.Publish(Change{Table: TableTasks, Action: ActionUpdate, ID: id})
	return s.GetByID(id)
}

func (s *TaskStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.notify.Publish(Change{Table: TableTasks, Action: ActionDelete, ID: id})
	}
	return nil
}

// --- Completion methods ---

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.TaskCompletion, error) {
	var c model.TaskCompletion
	var completedAt int64

	err := scanner.Scan(&c.ID, &c.TaskID, &c.KidID, &c.PointsAwarded, &completedAt, &c.Note)
	if err != nil {
		return nil, err
	}

	c.CompletedAt = fromMillis(completedAt)
	return &c, nil
}

const completionCols = `id, task_id, kid_id, points_awarded, completed_at, note`

// CreateCompletion appends a ledger row as given. Points are deliberately
// not range-checked here; affordability and sign policy belong to the
// caller.
func (s *TaskStore) CreateCompletion(c *model.TaskCompletion) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = now()
	}

	dup, err := idExists(s.db, "task_completions", c.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("completion %s: %w", c.ID, ErrDuplicateKey)
	}

	_, err = s.db.Exec(
		`INSERT INTO task_completions (id, task_id, kid_id, points_awarded, completed_at, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.KidID, c.PointsAwarded, toMillis(c.CompletedAt), c.Note,
	)
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}

	s.notify.Publish(Change{Table: TableCompletions, Action: ActionCreate, ID: c.ID})
	return nil
}

// Complete records a completion of the given task, snapshotting its current
// point value into the ledger row.
func (s *TaskStore) Complete(taskID, kidID string) (*model.TaskCompletion, error) {
	task, err := s.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}

	c := &model.TaskCompletion{
		TaskID:        taskID,
		KidID:         kidID,
		PointsAwarded: task.Points,
	}
	if err := s.CreateCompletion(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddManualPoints appends a quick-add completion against the manual
// sentinel task. Negative points pass through, so the same path can deduct.
func (s *TaskStore) AddManualPoints(kidID string, points int) (*model.TaskCompletion, error) {
	c := &model.TaskCompletion{
		TaskID:        model.ManualTaskID,
		KidID:         kidID,
		PointsAwarded: points,
		Note:          fmt.Sprintf("Quick add %+d", points),
	}
	if err := s.CreateCompletion(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TaskStore) ListCompletionsForKid(kidID string) ([]model.TaskCompletion, error) {
	return s.queryCompletions(
		`SELECT `+completionCols+` FROM task_completions WHERE kid_id = ? ORDER BY rowid`,
		kidID,
	)
}

func (s *TaskStore) ListCompletionsForTask(taskID string) ([]model.TaskCompletion, error) {
	return s.queryCompletions(
		`SELECT `+completionCols+` FROM task_completions WHERE task_id = ? ORDER BY rowid`,
		taskID,
	)
}

func (s *TaskStore) ListAllCompletions() ([]model.TaskCompletion, error) {
	return s.queryCompletions(`SELECT ` + completionCols + ` FROM task_completions ORDER BY rowid`)
}

func (s *TaskStore) queryCompletions(query string, args ...any) ([]model.TaskCompletion, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []model.TaskCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// DeleteCompletion is the undo primitive for a mis-recorded completion.
func (s *TaskStore) DeleteCompletion(id string) error {
	result, err := s.db.Exec(`DELETE FROM task_completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.notify.Publish(Change{Table: TableCompletions, Action: ActionDelete, ID: id})
	}
	return nil
}
