package repository

import (
	"errors"

	"match_chat/internal/models"
	"match_chat/internal/storage"
)

var ErrUserNotFound = errors.New("用戶不存在")

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByStatus(status models.UserStatus) ([]models.User, error)
	// UpdateStatus 以單一 UPDATE 語句更新狀態，避免讀取後回寫造成更新遺失
	UpdateStatus(id uint, status models.UserStatus) error
	// CompareAndSetStatus 只轉換目前處於 from 狀態的用戶，回傳實際更新的筆數。
	// 配對排程器用它認領 pending 用戶，中途取消配對的用戶不會被搶走。
	CompareAndSetStatus(ids []uint, from, to models.UserStatus) (int64, error)
}

type userRepository struct {
	db *storage.PostgresDB
}

func NewUserRepository(db *storage.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByStatus(status models.UserStatus) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("status = ?", status).Order("id asc").Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateStatus(id uint, status models.UserStatus) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CompareAndSetStatus(ids []uint, from, to models.UserStatus) (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("id IN ? AND status = ?", ids, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
