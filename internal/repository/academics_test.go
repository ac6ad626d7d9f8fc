package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

func seedDepartment(t *testing.T, repo *DepartmentRepo, name string) *model.Department {
	t.Helper()
	d := &model.Department{Name: name}
	require.NoError(t, repo.Create(context.Background(), d))
	return d
}

func TestDepartmentCRUD(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewDepartmentRepo(db)
	ctx := context.Background()

	d := seedDepartment(t, repo, "Computer Science")
	require.NotZero(t, d.ID)

	dup := &model.Department{Name: "Computer Science"}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	desc := "Engineering faculty"
	d.Description = &desc
	require.NoError(t, repo.Update(ctx, d))

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)

	seedDepartment(t, repo, "Art History")
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Art History", all[0].Name) // ordered by name

	require.NoError(t, repo.Delete(ctx, d.ID))
	_, err = repo.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, d.ID), ErrDepartmentNotFound)
}

func TestDepartmentDeleteRemovesCourses(t *testing.T) {
	db := newRepoTestDB(t)
	departments := NewDepartmentRepo(db)
	courses := NewCourseRepo(db)
	ctx := context.Background()

	d := seedDepartment(t, departments, "Physics")
	other := seedDepartment(t, departments, "Chemistry")

	require.NoError(t, courses.Create(ctx, &model.Course{DepartmentID: d.ID, Name: "Mechanics"}))
	require.NoError(t, courses.Create(ctx, &model.Course{DepartmentID: d.ID, Name: "Optics"}))
	kept := &model.Course{DepartmentID: other.ID, Name: "Organic Chemistry"}
	require.NoError(t, courses.Create(ctx, kept))

	require.NoError(t, departments.Delete(ctx, d.ID))

	orphans, err := courses.ListByDepartment(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	got, err := courses.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Organic Chemistry", got.Name)
}

func TestCourseCRUD(t *testing.T) {
	db := newRepoTestDB(t)
	departments := NewDepartmentRepo(db)
	courses := NewCourseRepo(db)
	ctx := context.Background()

	d := seedDepartment(t, departments, "Mathematics")
	course := &model.Course{DepartmentID: d.ID, Name: "Linear Algebra"}
	require.NoError(t, courses.Create(ctx, course))
	require.NotZero(t, course.ID)

	course.Name = "Linear Algebra II"
	require.NoError(t, courses.Update(ctx, course))

	got, err := courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra II", got.Name)
	assert.Equal(t, d.ID, got.DepartmentID)

	byDept, err := courses.ListByDepartment(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, byDept, 1)

	require.NoError(t, courses.Delete(ctx, course.ID))
	_, err = courses.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestMajorMinorCRUD(t *testing.T) {
	db := newRepoTestDB(t)
	departments := NewDepartmentRepo(db)
	repo := NewMajorMinorRepo(db)
	ctx := context.Background()

	major := seedDepartment(t, departments, "Biology")
	minor := seedDepartment(t, departments, "Statistics")

	m := &model.StudentMajorMinor{StudentID: 5, MajorDepartmentID: major.ID}
	require.NoError(t, repo.Create(ctx, m))
	require.NotZero(t, m.ID)

	got, err := repo.GetByStudent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, major.ID, got.MajorDepartmentID)
	assert.Nil(t, got.MinorDepartmentID)

	m.MinorDepartmentID = &minor.ID
	require.NoError(t, repo.Update(ctx, m))

	got, err = repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MinorDepartmentID)
	assert.Equal(t, minor.ID, *got.MinorDepartmentID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.GetByStudent(ctx, 5)
	assert.ErrorIs(t, err, ErrMajorMinorNotFound)
}
