package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Class is a named cohort. It owns its students and keeps enrollment order.
type Class struct {
	Name     string
	students []*Student
	index    map[string]*Student
}

func newClass(name string) *Class {
	return &Class{Name: name, index: make(map[string]*Student)}
}

func (c *Class) Student(username string) (*Student, error) {
	s, ok := c.index[username]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Students returns the roster in enrollment order.
func (c *Class) Students() []*Student {
	out := make([]*Student, len(c.students))
	copy(out, c.students)
	return out
}

// Enroll adds s unless the username is already taken, in which case the
// existing student is kept and false is returned.
func (c *Class) Enroll(s *Student) bool {
	if _, exists := c.index[s.Username]; exists {
		return false
	}
	s.Class = c.Name
	c.students = append(c.students, s)
	c.index[s.Username] = s
	return true
}

func (c *Class) clone() *Class {
	cc := newClass(c.Name)
	for _, s := range c.students {
		cc.Enroll(s.clone())
	}
	return cc
}

// Economy is the whole entity store: global users and every class.
type Economy struct {
	users   map[string]*User
	classes []*Class
	index   map[string]*Class
}

func NewEconomy() *Economy {
	return &Economy{
		users: make(map[string]*User),
		index: make(map[string]*Class),
	}
}

// AddUser registers a global principal, replacing any user with the same name.
func (e *Economy) AddUser(u *User) {
	e.users[u.Username] = u
}

func (e *Economy) User(username string) (*User, error) {
	u, ok := e.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (e *Economy) Users() []*User {
	out := make([]*User, 0, len(e.users))
	for _, u := range e.users {
		out = append(out, u)
	}
	return out
}

func (e *Economy) Class(name string) (*Class, error) {
	c, ok := e.index[name]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// Classes returns classes in creation order.
func (e *Economy) Classes() []*Class {
	out := make([]*Class, len(e.classes))
	copy(out, e.classes)
	return out
}

func (e *Economy) CreateClass(name string) (*Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, exists := e.index[name]; exists {
		return nil, ErrAlreadyExists
	}
	c := newClass(name)
	e.classes = append(e.classes, c)
	e.index[name] = c
	return c, nil
}

func (e *Economy) Student(class, username string) (*Student, error) {
	c, err := e.Class(class)
	if err != nil {
		return nil, err
	}
	return c.Student(username)
}

// Authenticate resolves a principal and checks its credential. An empty
// class selects the global scope. Unknown users and wrong credentials are
// indistinguishable to the caller.
func (e *Economy) Authenticate(class, username, credential string) (Principal, error) {
	var p Principal
	if strings.TrimSpace(class) == "" {
		u, err := e.User(username)
		if err != nil {
			return nil, ErrInvalidCredential
		}
		p = u
	} else {
		s, err := e.Student(class, username)
		if err != nil {
			return nil, ErrInvalidCredential
		}
		p = s
	}
	if !p.CheckCredential(credential) {
		return nil, ErrInvalidCredential
	}
	return p, nil
}

// Clone returns a deep copy that can be mutated without affecting e.
func (e *Economy) Clone() *Economy {
	c := NewEconomy()
	for name, u := range e.users {
		uc := *u
		c.users[name] = &uc
	}
	for _, class := range e.classes {
		cc := class.clone()
		c.classes = append(c.classes, cc)
		c.index[cc.Name] = cc
	}
	return c
}

// Seed is the default store: one admin and one developer, no classes.
func Seed(admin, developer User) *Economy {
	e := NewEconomy()
	admin.Role = RoleAdmin
	developer.Role = RoleDeveloper
	e.AddUser(&admin)
	e.AddUser(&developer)
	return e
}

// RosterEntry describes a student to enroll.
type RosterEntry struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EnrollRoster enrolls every new username of roster into class and returns
// the usernames actually created. Existing students are never overwritten.
func (e *Economy) EnrollRoster(class string, roster []RosterEntry, startingBalance decimal.Decimal) ([]string, error) {
	c, err := e.Class(class)
	if err != nil {
		return nil, err
	}
	created := []string{}
	for _, entry := range roster {
		username := strings.TrimSpace(entry.Username)
		if username == "" {
			return nil, ErrInvalidName
		}
		if c.Enroll(NewStudent(c.Name, username, entry.Password, startingBalance)) {
			created = append(created, username)
		}
	}
	return created, nil
}
