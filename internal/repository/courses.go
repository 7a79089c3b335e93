package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"RemindHub/internal/model"
	"RemindHub/storage/database"
)

// CourseRepo 课程、分类与活动实例的只读仓库
type CourseRepo struct {
	db *gorm.DB
}

func NewCourseRepo() *CourseRepo {
	return &CourseRepo{db: database.DB()}
}

func (r *CourseRepo) Course(ctx context.Context, id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepo) Category(ctx context.Context, id int64) (*model.CourseCategory, error) {
	var category model.CourseCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CoursesInCategory 分类下的课程，recursive 时逐层展开子孙分类
// 分类树规模有限，逐层查询比递归 CTE 省事
func (r *CourseRepo) CoursesInCategory(ctx context.Context, categoryID int64, recursive bool) ([]model.Course, error) {
	categoryIDs := []int64{categoryID}

	if recursive {
		frontier := []int64{categoryID}
		for len(frontier) > 0 {
			var children []int64
			err := r.db.WithContext(ctx).
				Model(&model.CourseCategory{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error
			if err != nil {
				return nil, err
			}
			categoryIDs = append(categoryIDs, children...)
			frontier = children
		}
	}

	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("id").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepo) Module(ctx context.Context, courseID int64, moduleName string, instance int64) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND module_name = ? AND instance = ?", courseID, moduleName, instance).
		First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepo) Quiz(ctx context.Context, instance int64) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).First(&quiz, instance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *CourseRepo) Assignment(ctx context.Context, instance int64) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).First(&assignment, instance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
