// ABOUTME: MCP resource implementations for fitlife.
// ABOUTME: Provides fitlife://groups and fitlife://students resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	groupsURI   = "fitlife://groups"
	studentsURI = "fitlife://students"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         groupsURI,
		Name:        "Muscle Groups",
		Description: "Muscle groups available for exercises",
		MIMEType:    "application/json",
	}, s.handleGroupsResource)

	// Summary per student: completion counters and assigned workouts.
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         studentsURI,
		Name:        "Students",
		Description: "Students with completion counters",
		MIMEType:    "application/json",
	}, s.handleStudentsResource)
}

func (s *Server) handleGroupsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	groups, err := s.repo.ListMuscleGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list muscle groups: %w", err)
	}
	return jsonResource(groupsURI, groups)
}

func (s *Server) handleStudentsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	type entry struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		Assigned       int    `json:"assigned"`
		Completed      int    `json:"completed"`
		CaloriesBurned int    `json:"calories_burned"`
	}

	result := make([]entry, 0, len(students))
	for _, u := range students {
		sum, err := s.repo.GetStudentSummary(ctx, u.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize %s: %w", u.Email, err)
		}
		result = append(result, entry{
			Name:           u.Name,
			Email:          u.Email,
			Assigned:       sum.Assigned,
			Completed:      sum.Completed,
			CaloriesBurned: sum.CaloriesBurned,
		})
	}
	return jsonResource(studentsURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
