package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ProfilesServiceName = "trivia.v1.Profiles"

const (
	Profiles_CreateProfile_FullMethodName     = "/trivia.v1.Profiles/CreateProfile"
	Profiles_GetProfile_FullMethodName        = "/trivia.v1.Profiles/GetProfile"
	Profiles_GetMyProfile_FullMethodName      = "/trivia.v1.Profiles/GetMyProfile"
	Profiles_UpdateDisplayName_FullMethodName = "/trivia.v1.Profiles/UpdateDisplayName"
	Profiles_AttemptQuestion_FullMethodName   = "/trivia.v1.Profiles/AttemptQuestion"
	Profiles_Leaderboard_FullMethodName       = "/trivia.v1.Profiles/Leaderboard"
)

// ProfilesServer is the server API for the Profiles service.
type ProfilesServer interface {
	CreateProfile(context.Context, *CreateProfileRequest) (*ProfileResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	GetMyProfile(context.Context, *Empty) (*ProfileResponse, error)
	UpdateDisplayName(context.Context, *UpdateDisplayNameRequest) (*Empty, error)
	AttemptQuestion(context.Context, *AttemptQuestionRequest) (*AttemptQuestionResponse, error)
	Leaderboard(context.Context, *LeaderboardRequest) (*LeaderboardResponse, error)
}

var Profiles_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProfilesServiceName,
	HandlerType: (*ProfilesServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateProfile",
			Handler:    unaryHandler(Profiles_CreateProfile_FullMethodName, ProfilesServer.CreateProfile),
		},
		{
			MethodName: "GetProfile",
			Handler:    unaryHandler(Profiles_GetProfile_FullMethodName, ProfilesServer.GetProfile),
		},
		{
			MethodName: "GetMyProfile",
			Handler:    unaryHandler(Profiles_GetMyProfile_FullMethodName, ProfilesServer.GetMyProfile),
		},
		{
			MethodName: "UpdateDisplayName",
			Handler:    unaryHandler(Profiles_UpdateDisplayName_FullMethodName, ProfilesServer.UpdateDisplayName),
		},
		{
			MethodName: "AttemptQuestion",
			Handler:    unaryHandler(Profiles_AttemptQuestion_FullMethodName, ProfilesServer.AttemptQuestion),
		},
		{
			MethodName: "Leaderboard",
			Handler:    unaryHandler(Profiles_Leaderboard_FullMethodName, ProfilesServer.Leaderboard),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trivia/v1/profiles",
}

func RegisterProfilesServer(s grpc.ServiceRegistrar, srv ProfilesServer) {
	s.RegisterService(&Profiles_ServiceDesc, srv)
}

// ProfilesClient calls the Profiles service.
type ProfilesClient struct {
	cc grpc.ClientConnInterface
}

func NewProfilesClient(cc grpc.ClientConnInterface) *ProfilesClient {
	return &ProfilesClient{cc: cc}
}

func (c *ProfilesClient) CreateProfile(ctx context.Context, in *CreateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, Profiles_CreateProfile_FullMethodName, in, opts)
}

func (c *ProfilesClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, Profiles_GetProfile_FullMethodName, in, opts)
}

func (c *ProfilesClient) GetMyProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, Profiles_GetMyProfile_FullMethodName, in, opts)
}

func (c *ProfilesClient) UpdateDisplayName(ctx context.Context, in *UpdateDisplayNameRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Profiles_UpdateDisplayName_FullMethodName, in, opts)
}

func (c *ProfilesClient) AttemptQuestion(ctx context.Context, in *AttemptQuestionRequest, opts ...grpc.CallOption) (*AttemptQuestionResponse, error) {
	return invoke[AttemptQuestionResponse](ctx, c.cc, Profiles_AttemptQuestion_FullMethodName, in, opts)
}

func (c *ProfilesClient) Leaderboard(ctx context.Context, in *LeaderboardRequest, opts ...grpc.CallOption) (*LeaderboardResponse, error) {
	return invoke[LeaderboardResponse](ctx, c.cc, Profiles_Leaderboard_FullMethodName, in, opts)
}
