package user

import "user-registry-api/internal/domain/user"

func ToResponse(u *user.User) Response {
	return Response{
		ID:        u.ID().String(),
		Email:     u.Email().String(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		FullName:  u.FullName(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func ToResponses(us user.Users) Responses {
	rs := make(Responses, len(us))
	for idx, u := range us {
		rs[idx] = ToResponse(u)
	}

	return rs
}

func ToListResponse(us user.Users, skip, limit int) ListResponse {
	rs := ToResponses(us)
	return ListResponse{
		Users: rs,
		Total: len(rs),
		Skip:  skip,
		Limit: limit,
	}
}
