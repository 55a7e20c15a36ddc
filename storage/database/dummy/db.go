package dummydb

import (
	"sync"

	"github.com/kwanza/kocha/core/academy"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/coach"
	"github.com/kwanza/kocha/core/court"
	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/student"
	"github.com/kwanza/kocha/core/user"
)

type (
	DB struct {
		academy *academyTable
		user    *userTable
		student *studentTable
		coach   *coachTable
		court   *courtTable
		class   *classTable
		session *sessionTable
	}

	academyTable struct {
		sync.RWMutex
		table map[string]*academy.Academy
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	coachTable struct {
		sync.RWMutex
		table map[string]*coach.Coach
	}

	courtTable struct {
		sync.RWMutex
		table map[string]*court.Court
	}

	classTable struct {
		sync.RWMutex
		table       map[string]*class.Class
		enrollments map[string]*class.Enrollment
	}

	sessionTable struct {
		sync.RWMutex
		table      map[string]*session.Session
		attendance map[string]*session.AttendanceRecord
	}
)

func Open() (*DB, error) {
	db := &DB{
		academy: &academyTable{table: make(map[string]*academy.Academy)},
		user:    &userTable{table: make(map[string]*user.User)},
		student: &studentTable{table: make(map[string]*student.Student)},
		coach:   &coachTable{table: make(map[string]*coach.Coach)},
		court:   &courtTable{table: make(map[string]*court.Court)},
		class: &classTable{
			table:       make(map[string]*class.Class),
			enrollments: make(map[string]*class.Enrollment),
		},
		session: &sessionTable{
			table:      make(map[string]*session.Session),
			attendance: make(map[string]*session.AttendanceRecord),
		},
	}
	return db, nil
}
