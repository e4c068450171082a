package usecase

import (
	"theater-booking/internal/dto/request"
	"theater-booking/pkg/apperror"
)

func (s *ServiceTestSuite) TestRegisterUser() {
	_, err := s.svc.User.RegisterUser(s.ctx, &request.RegisterUserRequest{
		Username: "alice", Email: "other@example.com", Role: "CUSTOMER",
	})
	s.assertAppError(err, apperror.KindConflict, apperror.CodeUsernameExists)
	s.EqualError(err, "Username already exists")

	_, err = s.svc.User.RegisterUser(s.ctx, &request.RegisterUserRequest{
		Username: "carol", Email: "carol@example.com", Role: "ROOT",
	})
	s.assertAppError(err, apperror.KindBadRequest, apperror.CodeValidationFailed)
}

func (s *ServiceTestSuite) TestGetCurrentUser() {
	user, err := s.svc.User.GetCurrentUser(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal("bob@example.com", user.Email)
	s.Equal("CUSTOMER", user.Role)

	_, err = s.svc.User.GetCurrentUser(s.ctx, "nobody")
	s.assertAppError(err, apperror.KindNotFound, apperror.CodeUserNotFound)
}

func (s *ServiceTestSuite) TestEnsureAdminIsIdempotent() {
	s.Require().NoError(s.svc.User.EnsureAdmin(s.ctx, "admin", "admin@example.com"))
	s.Require().NoError(s.svc.User.EnsureAdmin(s.ctx, "admin", "admin@example.com"))

	admin, err := s.svc.User.GetCurrentUser(s.ctx, "admin")
	s.Require().NoError(err)
	s.Equal("ADMIN", admin.Role)
}
