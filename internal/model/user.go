package model

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserResponse User

type GetUsersRequest struct{}

type GetUsersResponse struct {
	Users []User `json:"users"`

	// SkippedRecords counts malformed rows dropped from the scan.
	SkippedRecords int `json:"skipped_records,omitempty"`
}

type UploadAvatarRequest struct {
	// Avatar data is included in form-data.
}

type UploadAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
