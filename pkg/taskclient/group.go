package taskclient

// Group is one rendered section of the task list.
type Group struct {
	Status string
	Tasks  []Task
}

// GroupByStatus splits the full list into Pending, In Progress and Completed
// sections, preserving server order inside each. Tasks with any other status
// are dropped.
func GroupByStatus(tasks []Task) []Group {
	groups := []Group{
		{Status: StatusPending},
		{Status: StatusInProgress},
		{Status: StatusCompleted},
	}
	for _, t := range tasks {
		for i := range groups {
			if groups[i].Status == t.Status {
				groups[i].Tasks = append(groups[i].Tasks, t)
				break
			}
		}
	}
	return groups
}
