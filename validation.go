package main

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRE   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	lowerRE   = regexp.MustCompile(`[a-z]`)
	upperRE   = regexp.MustCompile(`[A-Z]`)
	digitRE   = regexp.MustCompile(`[0-9]`)
	specialRE = regexp.MustCompile("[!@#$%^&*()_+\\-=\\[\\]{}|;:'\",.<>/?`~]")
)

func validateEmail(email string) error {
	if !emailRE.MatchString(strings.TrimSpace(email)) {
		return errValidation("Please provide a valid email address.")
	}
	return nil
}

// validatePasswordLength checks only the length bounds; login applies this
// without the character-class rules so stored passwords predating a policy
// change can still log in.
func validatePasswordLength(password string) error {
	// bounds are in characters, not bytes
	n := utf8.RuneCountInString(password)
	if n < 12 {
		return errValidation("Password must be at least 12 characters.")
	}
	if n > 512 {
		return errValidation("The length of this Password is excessive.")
	}
	return nil
}

func validatePassword(password string) error {
	if err := validatePasswordLength(password); err != nil {
		return err
	}
	if !lowerRE.MatchString(password) {
		return errValidation("Password must include at least one lowercase letter.")
	}
	if !upperRE.MatchString(password) {
		return errValidation("Password must include at least one uppercase letter.")
	}
	if !digitRE.MatchString(password) {
		return errValidation("Password must include at least one number.")
	}
	if !specialRE.MatchString(password) {
		return errValidation("Password must include at least one special character")
	}
	return nil
}

type registerInput struct {
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Roles           []string `json:"roles"`
}

func (in *registerInput) validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return errValidation("Passwords don't match")
	}
	if len(in.FirstName) > 50 || len(in.LastName) > 50 {
		return errValidation("Names must be at most 50 characters.")
	}
	return nil
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *loginInput) validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	return validatePasswordLength(in.Password)
}

type orderItemInput struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
}

type orderInput struct {
	Items  []orderItemInput `json:"items"`
	Status string           `json:"status"`
	Note   string           `json:"note"`
}

func (in *orderInput) validate() error {
	if len(in.Items) == 0 {
		return errValidation("Items must contain at least 1 item.")
	}
	seen := make(map[int]bool, len(in.Items))
	for _, item := range in.Items {
		if seen[item.ProductID] {
			return errValidation(fmt.Sprintf("Duplicate item id: %d", item.ProductID))
		}
		seen[item.ProductID] = true
		if item.Quantity < 1 {
			return errValidation("Quantity must be >= 1.")
		}
		if len(strings.TrimSpace(item.Title)) < 2 {
			return errValidation("Product title is required and must be at least 2 characters long.")
		}
		if item.Price < 0.01 {
			return errValidation("Price must be > 0.")
		}
	}
	switch in.Status {
	case "", "pending", "paid", "shipped", "cancelled":
	default:
		return errValidation("Status must be one of pending, paid, shipped, cancelled.")
	}
	if len(in.Note) > 500 {
		return errValidation("Note must be at most 500 characters.")
	}
	return nil
}

type contactInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	TurnstileToken string `json:"turnstileToken"`
}

func (in *contactInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errValidation("Full name is required")
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	switch in.Subject {
	case "general", "technical", "feedback":
	default:
		return errValidation("Subject must be one of general, technical, feedback.")
	}
	if strings.TrimSpace(in.Message) == "" {
		return errValidation("Message is required")
	}
	if in.TurnstileToken == "" {
		return errValidation("Verification token is required")
	}
	return nil
}
