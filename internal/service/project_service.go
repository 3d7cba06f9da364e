package service

import (
	"errors"
	"strings"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrProjectNotFound 表示项目不存在。
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectTitleMissing 表示缺少项目标题。
	ErrProjectTitleMissing = errors.New("project title is required")
	// ErrProjectTypeInvalid 表示项目类型不在允许集合内。
	ErrProjectTypeInvalid = errors.New("project type must be side_project or portfolio")
)

// ProjectService provides CRUD access to portfolio projects.
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService returns a new ProjectService instance.
func NewProjectService(gdb *gorm.DB) *ProjectService {
	return &ProjectService{db: gdb}
}

// ProjectInput 描述创建或更新项目所需的字段。
type ProjectInput struct {
	Title       string
	Description string
	Image       string
	URL         string
	RepoURL     string
	Tags        []string
	Type        string
	Featured    bool
	SortOrder   int
	Published   bool
}

func (in ProjectInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrProjectTitleMissing
	}
	if in.Type != db.ProjectTypeSideProject && in.Type != db.ProjectTypePortfolio {
		return ErrProjectTypeInvalid
	}
	return nil
}

// List 返回全部项目，按创建时间倒序。
func (s *ProjectService) List() ([]db.Project, error) {
	var projects []db.Project
	if err := s.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListPublished 返回指定类型的已发布项目，按 sort_order 升序。
func (s *ProjectService) ListPublished(projectType string) ([]db.Project, error) {
	var projects []db.Project
	if err := s.db.
		Where("published = ? AND type = ?", true, projectType).
		Order("sort_order ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Get 按 ID 获取项目。
func (s *ProjectService) Get(id uint) (*db.Project, error) {
	var project db.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create 创建项目，slug 由标题派生。
func (s *ProjectService) Create(input ProjectInput) (*db.Project, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	project := db.Project{
		Title:       strings.TrimSpace(input.Title),
		Slug:        Slugify(input.Title),
		Description: input.Description,
		Image:       input.Image,
		URL:         input.URL,
		RepoURL:     input.RepoURL,
		Tags:        input.Tags,
		Type:        input.Type,
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
		Published:   input.Published,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update 更新项目并重新派生 slug。
func (s *ProjectService) Update(id uint, input ProjectInput) (*db.Project, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	project.Title = strings.TrimSpace(input.Title)
	project.Slug = Slugify(input.Title)
	project.Description = input.Description
	if input.Image != "" {
		project.Image = input.Image
	}
	project.URL = input.URL
	project.RepoURL = input.RepoURL
	project.Tags = input.Tags
	project.Type = input.Type
	project.Featured = input.Featured
	project.SortOrder = input.SortOrder
	project.Published = input.Published

	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete 删除项目。
func (s *ProjectService) Delete(id uint) error {
	result := s.db.Delete(&db.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
