package personav1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "persona.v1.PersonaService"

const (
	PersonaService_Register_FullMethodName         = "/persona.v1.PersonaService/Register"
	PersonaService_Login_FullMethodName            = "/persona.v1.PersonaService/Login"
	PersonaService_AddCredential_FullMethodName    = "/persona.v1.PersonaService/AddCredential"
	PersonaService_ListCredentials_FullMethodName  = "/persona.v1.PersonaService/ListCredentials"
	PersonaService_RemoveCredential_FullMethodName = "/persona.v1.PersonaService/RemoveCredential"
	PersonaService_CreateCharacter_FullMethodName  = "/persona.v1.PersonaService/CreateCharacter"
	PersonaService_ListCharacters_FullMethodName   = "/persona.v1.PersonaService/ListCharacters"
	PersonaService_GetCharacter_FullMethodName     = "/persona.v1.PersonaService/GetCharacter"
)

// PersonaServiceServer is the server API for PersonaService.
type PersonaServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	AddCredential(context.Context, *AddCredentialRequest) (*AddCredentialResponse, error)
	ListCredentials(context.Context, *ListCredentialsRequest) (*ListCredentialsResponse, error)
	RemoveCredential(context.Context, *RemoveCredentialRequest) (*RemoveCredentialResponse, error)
	CreateCharacter(context.Context, *CreateCharacterRequest) (*CreateCharacterResponse, error)
	ListCharacters(context.Context, *ListCharactersRequest) (*ListCharactersResponse, error)
	GetCharacter(context.Context, *GetCharacterRequest) (*GetCharacterResponse, error)
}

// UnimplementedPersonaServiceServer can be embedded for forward compatibility.
type UnimplementedPersonaServiceServer struct{}

func (UnimplementedPersonaServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedPersonaServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedPersonaServiceServer) AddCredential(context.Context, *AddCredentialRequest) (*AddCredentialResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddCredential not implemented")
}
func (UnimplementedPersonaServiceServer) ListCredentials(context.Context, *ListCredentialsRequest) (*ListCredentialsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCredentials not implemented")
}
func (UnimplementedPersonaServiceServer) RemoveCredential(context.Context, *RemoveCredentialRequest) (*RemoveCredentialResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveCredential not implemented")
}
func (UnimplementedPersonaServiceServer) CreateCharacter(context.Context, *CreateCharacterRequest) (*CreateCharacterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCharacter not implemented")
}
func (UnimplementedPersonaServiceServer) ListCharacters(context.Context, *ListCharactersRequest) (*ListCharactersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCharacters not implemented")
}
func (UnimplementedPersonaServiceServer) GetCharacter(context.Context, *GetCharacterRequest) (*GetCharacterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCharacter not implemented")
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(PersonaServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PersonaServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PersonaServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PersonaService_ServiceDesc is the grpc.ServiceDesc for PersonaService.
var PersonaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PersonaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(PersonaService_Register_FullMethodName, PersonaServiceServer.Register)},
		{MethodName: "Login", Handler: unary(PersonaService_Login_FullMethodName, PersonaServiceServer.Login)},
		{MethodName: "AddCredential", Handler: unary(PersonaService_AddCredential_FullMethodName, PersonaServiceServer.AddCredential)},
		{MethodName: "ListCredentials", Handler: unary(PersonaService_ListCredentials_FullMethodName, PersonaServiceServer.ListCredentials)},
		{MethodName: "RemoveCredential", Handler: unary(PersonaService_RemoveCredential_FullMethodName, PersonaServiceServer.RemoveCredential)},
		{MethodName: "CreateCharacter", Handler: unary(PersonaService_CreateCharacter_FullMethodName, PersonaServiceServer.CreateCharacter)},
		{MethodName: "ListCharacters", Handler: unary(PersonaService_ListCharacters_FullMethodName, PersonaServiceServer.ListCharacters)},
		{MethodName: "GetCharacter", Handler: unary(PersonaService_GetCharacter_FullMethodName, PersonaServiceServer.GetCharacter)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "persona/v1/persona.json",
}

// RegisterPersonaServiceServer registers srv on s.
func RegisterPersonaServiceServer(s grpc.ServiceRegistrar, srv PersonaServiceServer) {
	s.RegisterService(&PersonaService_ServiceDesc, srv)
}

// PersonaServiceClient is the client API for PersonaService.
type PersonaServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	AddCredential(ctx context.Context, in *AddCredentialRequest, opts ...grpc.CallOption) (*AddCredentialResponse, error)
	ListCredentials(ctx context.Context, in *ListCredentialsRequest, opts ...grpc.CallOption) (*ListCredentialsResponse, error)
	RemoveCredential(ctx context.Context, in *RemoveCredentialRequest, opts ...grpc.CallOption) (*RemoveCredentialResponse, error)
	CreateCharacter(ctx context.Context, in *CreateCharacterRequest, opts ...grpc.CallOption) (*CreateCharacterResponse, error)
	ListCharacters(ctx context.Context, in *ListCharactersRequest, opts ...grpc.CallOption) (*ListCharactersResponse, error)
	GetCharacter(ctx context.Context, in *GetCharacterRequest, opts ...grpc.CallOption) (*GetCharacterResponse, error)
}

type personaServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPersonaServiceClient(cc grpc.ClientConnInterface) PersonaServiceClient {
	return &personaServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *personaServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, PersonaService_Register_FullMethodName, in, opts)
}

func (c *personaServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, PersonaService_Login_FullMethodName, in, opts)
}

func (c *personaServiceClient) AddCredential(ctx context.Context, in *AddCredentialRequest, opts ...grpc.CallOption) (*AddCredentialResponse, error) {
	return invoke[AddCredentialResponse](ctx, c.cc, PersonaService_AddCredential_FullMethodName, in, opts)
}

func (c *personaServiceClient) ListCredentials(ctx context.Context, in *ListCredentialsRequest, opts ...grpc.CallOption) (*ListCredentialsResponse, error) {
	return invoke[ListCredentialsResponse](ctx, c.cc, PersonaService_ListCredentials_FullMethodName, in, opts)
}

func (c *personaServiceClient) RemoveCredential(ctx context.Context, in *RemoveCredentialRequest, opts ...grpc.CallOption) (*RemoveCredentialResponse, error) {
	return invoke[RemoveCredentialResponse](ctx, c.cc, PersonaService_RemoveCredential_FullMethodName, in, opts)
}

func (c *personaServiceClient) CreateCharacter(ctx context.Context, in *CreateCharacterRequest, opts ...grpc.CallOption) (*CreateCharacterResponse, error) {
	return invoke[CreateCharacterResponse](ctx, c.cc, PersonaService_CreateCharacter_FullMethodName, in, opts)
}

func (c *personaServiceClient) ListCharacters(ctx context.Context, in *ListCharactersRequest, opts ...grpc.CallOption) (*ListCharactersResponse, error) {
	return invoke[ListCharactersResponse](ctx, c.cc, PersonaService_ListCharacters_FullMethodName, in, opts)
}

func (c *personaServiceClient) GetCharacter(ctx context.Context, in *GetCharacterRequest, opts ...grpc.CallOption) (*GetCharacterResponse, error) {
	return invoke[GetCharacterResponse](ctx, c.cc, PersonaService_GetCharacter_FullMethodName, in, opts)
}
