package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/devfolio/internal/db"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

var (
	// ErrContactNotFound 表示留言不存在。
	ErrContactNotFound = errors.New("contact not found")
	// ErrContactInvalid 表示留言缺少必填字段。
	ErrContactInvalid = errors.New("contact requires name, email and message")
)

// Mailer 抽象留言通知的投递方式，便于测试替换。
type Mailer interface {
	SendContactNotification(contact *db.Contact) error
}

// SMTPMailer 通过 SMTP 发送留言通知。
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewSMTPMailer 构造 SMTPMailer，host 或 to 为空时返回 nil 表示通知关闭。
func NewSMTPMailer(host string, port int, username, password, to string) *SMTPMailer {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(to) == "" {
		return nil
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
		to:     to,
	}
}

// SendContactNotification 发送新留言通知邮件。
func (m *SMTPMailer) SendContactNotification(contact *db.Contact) error {
	subject := contact.Subject
	if subject == "" {
		subject = "(sin asunto)"
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", m.to)
	message.SetHeader("Reply-To", contact.Email)
	message.SetHeader("Subject", fmt.Sprintf("Nuevo mensaje de contacto: %s", subject))
	message.SetBody("text/plain", fmt.Sprintf("De: %s <%s>\n\n%s", contact.Name, contact.Email, contact.Message))

	return m.dialer.DialAndSend(message)
}

// ContactService 管理联系表单留言。
type ContactService struct {
	db     *gorm.DB
	mailer Mailer
}

// NewContactService returns a new ContactService instance.
// mailer 为 nil 时跳过邮件通知。
func NewContactService(gdb *gorm.DB, mailer Mailer) *ContactService {
	return &ContactService{db: gdb, mailer: mailer}
}

// ContactInput 描述一次联系表单提交。
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Create 保存留言并尽力而为地发送通知邮件。
// 通知失败只记日志，绝不影响留言本身的保存结果。
func (s *ContactService) Create(input ContactInput) (*db.Contact, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)
	if name == "" || email == "" || message == "" {
		return nil, ErrContactInvalid
	}

	contact := db.Contact{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(input.Subject),
		Message: message,
	}

	if err := s.db.Create(&contact).Error; err != nil {
		return nil, err
	}

	if s.mailer != nil {
		notified := contact
		go func() {
			if err := s.mailer.SendContactNotification(&notified); err != nil {
				log.Printf("failed to send contact notification: %v", err)
			}
		}()
	}

	return &contact, nil
}

// List 返回全部留言，按创建时间倒序。
func (s *ContactService) List() ([]db.Contact, error) {
	var contacts []db.Contact
	if err := s.db.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// MarkRead 将留言标记为已读。
func (s *ContactService) MarkRead(id uint) error {
	result := s.db.Model(&db.Contact{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// Delete 删除留言。
func (s *ContactService) Delete(id uint) error {
	result := s.db.Delete(&db.Contact{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// UnreadCount 返回未读留言数。
func (s *ContactService) UnreadCount() (int64, error) {
	var count int64
	err := s.db.Model(&db.Contact{}).Where("read = ?", false).Count(&count).Error
	return count, err
}
