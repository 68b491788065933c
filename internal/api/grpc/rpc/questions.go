package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const QuestionsServiceName = "trivia.v1.Questions"

const (
	Questions_ListQuestions_FullMethodName  = "/trivia.v1.Questions/ListQuestions"
	Questions_GetQuestion_FullMethodName    = "/trivia.v1.Questions/GetQuestion"
	Questions_PostQuestion_FullMethodName   = "/trivia.v1.Questions/PostQuestion"
	Questions_DeleteQuestion_FullMethodName = "/trivia.v1.Questions/DeleteQuestion"
	Questions_LikeQuestion_FullMethodName   = "/trivia.v1.Questions/LikeQuestion"
	Questions_UnlikeQuestion_FullMethodName = "/trivia.v1.Questions/UnlikeQuestion"
	Questions_SaveQuestion_FullMethodName   = "/trivia.v1.Questions/SaveQuestion"
	Questions_UnsaveQuestion_FullMethodName = "/trivia.v1.Questions/UnsaveQuestion"
)

// QuestionsServer is the server API for the Questions service.
type QuestionsServer interface {
	ListQuestions(context.Context, *ListQuestionsRequest) (*ListQuestionsResponse, error)
	GetQuestion(context.Context, *QuestionRequest) (*QuestionResponse, error)
	PostQuestion(context.Context, *PostQuestionRequest) (*QuestionResponse, error)
	DeleteQuestion(context.Context, *QuestionRequest) (*Empty, error)
	LikeQuestion(context.Context, *QuestionRequest) (*Empty, error)
	UnlikeQuestion(context.Context, *QuestionRequest) (*Empty, error)
	SaveQuestion(context.Context, *QuestionRequest) (*Empty, error)
	UnsaveQuestion(context.Context, *QuestionRequest) (*Empty, error)
}

var Questions_ServiceDesc = grpc.ServiceDesc{
	ServiceName: QuestionsServiceName,
	HandlerType: (*QuestionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListQuestions",
			Handler:    unaryHandler(Questions_ListQuestions_FullMethodName, QuestionsServer.ListQuestions),
		},
		{
			MethodName: "GetQuestion",
			Handler:    unaryHandler(Questions_GetQuestion_FullMethodName, QuestionsServer.GetQuestion),
		},
		{
			MethodName: "PostQuestion",
			Handler:    unaryHandler(Questions_PostQuestion_FullMethodName, QuestionsServer.PostQuestion),
		},
		{
			MethodName: "DeleteQuestion",
			Handler:    unaryHandler(Questions_DeleteQuestion_FullMethodName, QuestionsServer.DeleteQuestion),
		},
		{
			MethodName: "LikeQuestion",
			Handler:    unaryHandler(Questions_LikeQuestion_FullMethodName, QuestionsServer.LikeQuestion),
		},
		{
			MethodName: "UnlikeQuestion",
			Handler:    unaryHandler(Questions_UnlikeQuestion_FullMethodName, QuestionsServer.UnlikeQuestion),
		},
		{
			MethodName: "SaveQuestion",
			Handler:    unaryHandler(Questions_SaveQuestion_FullMethodName, QuestionsServer.SaveQuestion),
		},
		{
			MethodName: "UnsaveQuestion",
			Handler:    unaryHandler(Questions_UnsaveQuestion_FullMethodName, QuestionsServer.UnsaveQuestion),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trivia/v1/questions",
}

func RegisterQuestionsServer(s grpc.ServiceRegistrar, srv QuestionsServer) {
	s.RegisterService(&Questions_ServiceDesc, srv)
}

// QuestionsClient calls the Questions service.
type QuestionsClient struct {
	cc grpc.ClientConnInterface
}

func NewQuestionsClient(cc grpc.ClientConnInterface) *QuestionsClient {
	return &QuestionsClient{cc: cc}
}

func (c *QuestionsClient) ListQuestions(ctx context.Context, in *ListQuestionsRequest, opts ...grpc.CallOption) (*ListQuestionsResponse, error) {
	return invoke[ListQuestionsResponse](ctx, c.cc, Questions_ListQuestions_FullMethodName, in, opts)
}

func (c *QuestionsClient) GetQuestion(ctx context.Context, in *QuestionRequest, opts ...grpc.CallOption) (*QuestionResponse, error) {
	return invoke[QuestionResponse](ctx, c.cc, Questions_GetQuestion_FullMethodName, in, opts)
}

func (c *QuestionsClient) PostQuestion(ctx context.Context, in *PostQuestionRequest, opts ...grpc.CallOption) (*QuestionResponse, error) {
	return invoke[QuestionResponse](ctx, c.cc, Questions_PostQuestion_FullMethodName, in, opts)
}

func (c *QuestionsClient) DeleteQuestion(ctx context.Context, in *QuestionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Questions_DeleteQuestion_FullMethodName, in, opts)
}

func (c *QuestionsClient) LikeQuestion(ctx context.Context, in *QuestionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Questions_LikeQuestion_FullMethodName, in, opts)
}

func (c *QuestionsClient) UnlikeQuestion(ctx context.Context, in *QuestionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Questions_UnlikeQuestion_FullMethodName, in, opts)
}

func (c *QuestionsClient) SaveQuestion(ctx context.Context, in *QuestionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Questions_SaveQuestion_FullMethodName, in, opts)
}

func (c *QuestionsClient) UnsaveQuestion(ctx context.Context, in *QuestionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Questions_UnsaveQuestion_FullMethodName, in, opts)
}
