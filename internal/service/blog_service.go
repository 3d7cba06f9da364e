package service

import (
	"bytes"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/devfolio/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	// ErrBlogNotFound 表示博客不存在或未发布。
	ErrBlogNotFound = errors.New("blog not found")
	// ErrBlogTitleMissing 表示缺少博客标题。
	ErrBlogTitleMissing = errors.New("blog title is required")
	// ErrBlogContentMissing 表示缺少博客正文。
	ErrBlogContentMissing = errors.New("blog content is required")
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer     = bluemonday.UGCPolicy()
	textSanitizer = bluemonday.StrictPolicy()
)

const relatedBlogLimit = 3

// BlogService provides CRUD and rendering for blog posts.
type BlogService struct {
	db    *gorm.DB
	nowFn func() time.Time
}

// NewBlogService returns a new BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb, nowFn: time.Now}
}

// WithNow 注入时钟，便于测试固定 PublishedAt。
func (s *BlogService) WithNow(nowFn func() time.Time) *BlogService {
	if nowFn == nil {
		return s
	}
	s.nowFn = nowFn
	return s
}

// BlogInput 描述创建或更新博客所需的字段。
type BlogInput struct {
	Title     string
	Excerpt   string
	Content   string
	Image     string
	Tags      []string
	Published bool
}

func (in BlogInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrBlogTitleMissing
	}
	if strings.TrimSpace(in.Content) == "" {
		return ErrBlogContentMissing
	}
	return nil
}

// List 返回全部博客，按创建时间倒序。
func (s *BlogService) List() ([]db.Blog, error) {
	var blogs []db.Blog
	if err := s.db.Order("created_at DESC").Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

// ListPublished 返回已发布的博客，按发布时间倒序。
func (s *BlogService) ListPublished(limit int) ([]db.Blog, error) {
	query := s.db.Where("published = ?", true).Order("published_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var blogs []db.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

// GetBySlug 按 slug 获取已发布的博客。
func (s *BlogService) GetBySlug(slug string) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.Where("slug = ? AND published = ?", slug, true).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// Related 返回与给定博客共享标签的已发布博客，按发布时间倒序，最多三篇。
// 标签以 JSON 文本存储，匹配在内存中完成，个人站点的数据量下开销可忽略。
func (s *BlogService) Related(blog *db.Blog) ([]db.Blog, error) {
	if blog == nil || len(blog.Tags) == 0 {
		return nil, nil
	}

	tagSet := make(map[string]struct{}, len(blog.Tags))
	for _, tag := range blog.Tags {
		tagSet[tag] = struct{}{}
	}

	var candidates []db.Blog
	if err := s.db.
		Where("published = ? AND id <> ?", true, blog.ID).
		Order("published_at DESC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	related := make([]db.Blog, 0, relatedBlogLimit)
	for _, candidate := range candidates {
		for _, tag := range candidate.Tags {
			if _, ok := tagSet[tag]; ok {
				related = append(related, candidate)
				break
			}
		}
		if len(related) == relatedBlogLimit {
			break
		}
	}

	return related, nil
}

// Create 创建博客；首次发布时写入 PublishedAt。
func (s *BlogService) Create(input BlogInput) (*db.Blog, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	blog := db.Blog{
		Title:     strings.TrimSpace(input.Title),
		Slug:      Slugify(input.Title),
		Excerpt:   strings.TrimSpace(input.Excerpt),
		Content:   input.Content,
		Image:     input.Image,
		Tags:      input.Tags,
		Published: input.Published,
	}
	if input.Published {
		now := s.nowFn()
		blog.PublishedAt = &now
	}

	if err := s.db.Create(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// Update 更新博客。PublishedAt 只在首次发布时设置，之后保持不变。
func (s *BlogService) Update(id uint, input BlogInput) (*db.Blog, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var blog db.Blog
	if err := s.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	blog.Title = strings.TrimSpace(input.Title)
	blog.Slug = Slugify(input.Title)
	blog.Excerpt = strings.TrimSpace(input.Excerpt)
	blog.Content = input.Content
	if input.Image != "" {
		blog.Image = input.Image
	}
	blog.Tags = input.Tags
	blog.Published = input.Published
	if input.Published && blog.PublishedAt == nil {
		now := s.nowFn()
		blog.PublishedAt = &now
	}

	if err := s.db.Save(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// Delete 删除博客。
func (s *BlogService) Delete(id uint) error {
	result := s.db.Delete(&db.Blog{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// RenderHTML 将博客的 Markdown 正文渲染为净化后的 HTML。
func (s *BlogService) RenderHTML(blog *db.Blog) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(blog.Content), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// SEODescription 返回用于 meta description 的纯文本摘要，最长 150 个字符。
func (s *BlogService) SEODescription(blog *db.Blog) string {
	raw := blog.Excerpt
	if raw == "" {
		raw = blog.Content
	}

	plain := strings.Join(strings.Fields(textSanitizer.Sanitize(raw)), " ")
	return truncateRunes(plain, 150)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
