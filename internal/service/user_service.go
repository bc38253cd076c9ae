package service

import (
	"errors"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/validator"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	RoleCode string `json:"role_code" validate:"required"`
}

type UserService interface {
	CreateUser(req CreateUserRequest, actorID string) (*model.UserResponse, error)
	GetAllUsers() ([]model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo}
}

// CreateUser registers an account with the privileges of its role.
func (s *userService) CreateUser(req CreateUserRequest, actorID string) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		first := errs[0]
		return nil, invalidInput("field %s failed on %s", first.FailedField, first.Tag)
	}

	role, err := s.roleRepo.FindByCode(req.RoleCode)
	if err != nil {
		return nil, invalidInput("unknown role %q", req.RoleCode)
	}

	if existing, err := s.userRepo.FindByEmail(req.Email); err == nil && existing != nil {
		return nil, invalidInput("email %s already registered", req.Email)
	}

	user := &model.User{
		Email:      req.Email,
		FullName:   req.FullName,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	user.CreatedBy = actorID
	user.UpdatedBy = actorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}
