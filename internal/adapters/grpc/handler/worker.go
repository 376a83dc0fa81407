package handler

import (
	"context"

	"github.com/ogurasousui/worker-registry/internal/core/worker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const workerServiceName = "worker.v1.WorkerService"

// WorkerServiceServer は WorkerService のサーバー側インターフェースです。
type WorkerServiceServer interface {
	GetWorker(ctx context.Context, req *GetWorkerRequest) (*WorkerResponse, error)
	CreateWorker(ctx context.Context, req *CreateWorkerRequest) (*WorkerResponse, error)
	ReplaceWorker(ctx context.Context, req *ReplaceWorkerRequest) (*WorkerResponse, error)
	DeleteWorker(ctx context.Context, req *DeleteWorkerRequest) (*DeleteWorkerResponse, error)
}

// WorkerServiceDesc は JSON コーデックで運ぶ WorkerService の定義です。
var WorkerServiceDesc = grpc.ServiceDesc{
	ServiceName: workerServiceName,
	HandlerType: (*WorkerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetWorker", Handler: unaryHandler("GetWorker", WorkerServiceServer.GetWorker)},
		{MethodName: "CreateWorker", Handler: unaryHandler("CreateWorker", WorkerServiceServer.CreateWorker)},
		{MethodName: "ReplaceWorker", Handler: unaryHandler("ReplaceWorker", WorkerServiceServer.ReplaceWorker)},
		{MethodName: "DeleteWorker", Handler: unaryHandler("DeleteWorker", WorkerServiceServer.DeleteWorker)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "worker/v1/worker.proto",
}

// FullMethod は WorkerService のメソッド名を完全修飾名にします。
func FullMethod(method string) string {
	return "/" + workerServiceName + "/" + method
}

func unaryHandler[Req, Resp any](method string, call func(WorkerServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WorkerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WorkerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// WorkerGrpcHandler は WorkerService の gRPC 実装です。
type WorkerGrpcHandler struct {
	svc worker.UseCase
}

// NewWorkerGrpcHandler は WorkerGrpcHandler を生成します。
func NewWorkerGrpcHandler(svc worker.UseCase) *WorkerGrpcHandler {
	return &WorkerGrpcHandler{svc: svc}
}

// GetWorker はワーカーを取得します。
func (h *WorkerGrpcHandler) GetWorker(ctx context.Context, req *GetWorkerRequest) (*WorkerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetWorker(ctx, worker.GetWorkerInput{ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &WorkerResponse{Worker: toWorkerMessage(found)}, nil
}

// CreateWorker はワーカーを登録します。
func (h *WorkerGrpcHandler) CreateWorker(ctx context.Context, req *CreateWorkerRequest) (*WorkerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	w, err := toDomainWorker(req.Worker)
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.CreateWorker(ctx, worker.CreateWorkerInput{Worker: w})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &WorkerResponse{Worker: toWorkerMessage(created)}, nil
}

// ReplaceWorker はワーカーの全項目を置き換えます。
func (h *WorkerGrpcHandler) ReplaceWorker(ctx context.Context, req *ReplaceWorkerRequest) (*WorkerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	w, err := toDomainWorker(req.Worker)
	if err != nil {
		return nil, toStatusError(err)
	}

	replaced, err := h.svc.ReplaceWorker(ctx, worker.ReplaceWorkerInput{ID: req.ID, Worker: w})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &WorkerResponse{Worker: toWorkerMessage(replaced)}, nil
}

// DeleteWorker はワーカーを削除します。
func (h *WorkerGrpcHandler) DeleteWorker(ctx context.Context, req *DeleteWorkerRequest) (*DeleteWorkerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteWorker(ctx, worker.DeleteWorkerInput{ID: req.ID}); err != nil {
		return nil, toStatusError(err)
	}
	return &DeleteWorkerResponse{Message: "Worker deleted successfully"}, nil
}
