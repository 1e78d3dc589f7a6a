package store

import "github.com/sadopc/focusflow/internal/pomodoro"

// LoadTasks returns the stored task list, or nil when there is none.
func (s *Store) LoadTasks() ([]pomodoro.Task, error) {
	var tasks []pomodoro.Task
	ok, err := s.loadDocument(KeyTasks, &tasks)
	if err != nil || !ok {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) SaveTasks(tasks []pomodoro.Task) error {
	if tasks == nil {
		tasks = []pomodoro.Task{}
	}
	return s.PutDocument(KeyTasks, tasks)
}
