package rpc

import (
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/funxy/internal/ir"
	"github.com/funvibe/funxy/internal/solver"
)

// Service is the gRPC-visible handler, registered against a *grpc.Server
// the same way the teacher's builtinGrpcRegister constructs and registers a
// grpc.ServiceDesc by hand — there is no generated *_grpc.pb.go here, since
// there is no .proto file to generate one from.
type Service struct {
	Solver solver.Solver
	Goals  *Registry
}

func NewService(s solver.Solver, goals *Registry) *Service {
	return &Service{Solver: s, Goals: goals}
}

// ServiceDesc is the hand-built grpc.ServiceDesc a host passes to
// (*grpc.Server).RegisterService(&ServiceDesc, svc), mirroring
// builtinGrpcRegister's desc := &grpc.ServiceDesc{...} construction.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "funxy.rpc.Solver",
	HandlerType: (*Service)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SolveStream",
			Handler:       solveStreamHandler,
			ServerStreams: true,
		},
	},
	Metadata: "funxy_rpc.proto",
}

// solveStreamHandler adapts one gRPC server-streaming call to
// Solver.SolveMultiple: there is no generated unary/stream interface to
// implement against, so the handler talks to grpc.ServerStream directly,
// the same level the teacher's FunxyGrpcHandler.HandleUnary operates at for
// its own hand-registered methods.
func solveStreamHandler(srv interface{}, stream grpc.ServerStream) error {
	svc := srv.(*Service)

	goalDesc, err := GoalDescriptor()
	if err != nil {
		return err
	}
	factory := dynamic.NewMessageFactoryWithDefaults()
	req := factory.NewDynamicMessage(goalDesc)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}

	name, err := decodeGoalName(req)
	if err != nil {
		return err
	}
	goal, err := svc.Goals.Goal(name)
	if err != nil {
		return err
	}

	factory2 := dynamic.NewMessageFactoryWithDefaults()
	index := 0
	var sendErr error
	svc.Solver.SolveMultiple(&goal, func(sol *ir.Solution, hasNext bool) bool {
		env, err := encodeSolution(factory2, sol, index, hasNext)
		if err != nil {
			sendErr = err
			return false
		}
		if err := stream.SendMsg(env); err != nil {
			sendErr = err
			return false
		}
		index++
		return true
	})
	return sendErr
}
