package apitest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type projectBody struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	Priority     string   `json:"priority"`
	Category     string   `json:"category"`
	Status       string   `json:"status"`
	AssignedTeam []string `json:"assignedTeam"`
	Tasks        []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Subtasks []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Completed bool   `json:"completed"`
		} `json:"subtasks"`
	} `json:"tasks"`
}

// apply copies the body onto p, assigning ids to new tasks and subtasks
func (s *Server) apply(p *Project, body projectBody) {
	p.Name = body.Name
	p.Description = body.Description
	p.StartDate, p.EndDate = "", ""
	if body.StartDate != nil {
		p.StartDate = *body.StartDate
	}
	if body.EndDate != nil {
		p.EndDate = *body.EndDate
	}
	p.Priority = body.Priority
	p.Category = body.Category
	p.Status = body.Status
	if p.Status == "" {
		p.Status = "Planning"
	}
	p.AssignedTeam = make([]any, 0, len(body.AssignedTeam))
	for _, id := range body.AssignedTeam {
		p.AssignedTeam = append(p.AssignedTeam, id)
	}
	if body.Tasks == nil {
		return
	}
	p.Tasks = make([]Task, 0, len(body.Tasks))
	for _, bt := range body.Tasks {
		t := Task{ID: bt.ID, Name: bt.Name, Subtasks: []Subtask{}}
		if t.ID == "" {
			t.ID = s.nextID("t")
		}
		for _, bs := range bt.Subtasks {
			st := Subtask{ID: bs.ID, Name: bs.Name, Completed: bs.Completed}
			if st.ID == "" {
				st.ID = s.nextID("s")
			}
			t.Subtasks = append(t.Subtasks, st)
		}
		p.Tasks = append(p.Tasks, t)
	}
}

func (s *Server) listProjects(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.projects
	if out == nil {
		out = []Project{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createProject(c *gin.Context) {
	var body projectBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Project name is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Project{ID: s.nextID("p"), Tasks: []Task{}}
	s.apply(&p, body)
	s.projects = append(s.projects, p)
	c.JSON(http.StatusCreated, p)
}

func (s *Server) findProject(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) updateProject(c *gin.Context) {
	var body projectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProject(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	s.apply(&s.projects[i], body)
	c.JSON(http.StatusOK, s.projects[i])
}

func (s *Server) deleteProject(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProject(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "Project removed"})
}

// toggleSubtask flips the subtask and completes the project when every subtask is done
func (s *Server) toggleSubtask(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProject(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	p := &s.projects[i]

	found := false
	total, done := 0, 0
	for ti := range p.Tasks {
		for si := range p.Tasks[ti].Subtasks {
			st := &p.Tasks[ti].Subtasks[si]
			if p.Tasks[ti].ID == c.Param("taskId") && st.ID == c.Param("subtaskId") {
				st.Completed = !st.Completed
				found = true
			}
			total++
			if st.Completed {
				done++
			}
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Subtask not found"})
		return
	}

	resp := gin.H{"message": "Subtask toggled"}
	if total > 0 && done == total && p.Status != "Completed" {
		p.Status = "Completed"
		resp["projectStatus"] = p.Status
	} else if done < total && p.Status == "Completed" {
		p.Status = "In Progress"
		resp["projectStatus"] = p.Status
	}
	c.JSON(http.StatusOK, resp)
}
