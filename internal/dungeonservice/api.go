// Package dungeonservice exposes a dungeon Generator over gRPC.
//
// Messages are plain Go structs carried with the "json" content subtype, so
// clients must dial with grpc.CallContentSubtype("json"); NewClient does this.
package dungeonservice

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/dungeon/internal/dungeon"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "dungeon.v1.DungeonService"

// Full method names.
const (
	MethodGenerate       = "/" + ServiceName + "/Generate"
	MethodGetConfig      = "/" + ServiceName + "/GetConfig"
	MethodUpdateConfig   = "/" + ServiceName + "/UpdateConfig"
	MethodClearBaseRooms = "/" + ServiceName + "/ClearBaseRooms"
	MethodBaseRooms      = "/" + ServiceName + "/BaseRooms"
	MethodGetArchived    = "/" + ServiceName + "/GetArchived"
)

// Empty is the message for calls with no payload.
type Empty struct{}

// GenerateRequest asks for one dungeon.
type GenerateRequest struct {
	PreserveBaseRooms bool `json:"preserveBaseRooms"`
	// Render adds an ASCII rendering to the response.
	Render bool `json:"render"`
}

// GenerateResponse carries a generated dungeon.
type GenerateResponse struct {
	Dungeon dungeon.Data `json:"dungeon"`
	// ArchiveID is set when the dungeon was archived.
	ArchiveID string `json:"archiveId,omitempty"`
	ASCII     string `json:"ascii,omitempty"`
}

// ConfigResponse reports the generator's configuration and effective seed.
type ConfigResponse struct {
	Config dungeon.Config `json:"config"`
	Seed   int64          `json:"seed"`
}

// UpdateConfigRequest merges Patch into the generator configuration.
type UpdateConfigRequest struct {
	Patch dungeon.ConfigPatch `json:"patch"`
}

// BaseRoomsResponse reports the cached base layout.
type BaseRoomsResponse struct {
	HasBaseRooms bool               `json:"hasBaseRooms"`
	Rooms        []dungeon.RoomData `json:"rooms,omitempty"`
}

// GetArchivedRequest looks up an archived dungeon by ID.
type GetArchivedRequest struct {
	ID string `json:"id"`
}

// ArchivedResponse is an archived dungeon.
type ArchivedResponse struct {
	ID        string         `json:"id"`
	Config    dungeon.Config `json:"config"`
	Dungeon   dungeon.Data   `json:"dungeon"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DungeonServiceServer is the server API for the dungeon service.
type DungeonServiceServer interface {
	Generate(context.Context, *GenerateRequest) (*GenerateResponse, error)
	GetConfig(context.Context, *Empty) (*ConfigResponse, error)
	UpdateConfig(context.Context, *UpdateConfigRequest) (*ConfigResponse, error)
	ClearBaseRooms(context.Context, *Empty) (*Empty, error)
	BaseRooms(context.Context, *Empty) (*BaseRoomsResponse, error)
	GetArchived(context.Context, *GetArchivedRequest) (*ArchivedResponse, error)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(DungeonServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DungeonServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DungeonServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the dungeon service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DungeonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: unaryHandler(MethodGenerate, DungeonServiceServer.Generate)},
		{MethodName: "GetConfig", Handler: unaryHandler(MethodGetConfig, DungeonServiceServer.GetConfig)},
		{MethodName: "UpdateConfig", Handler: unaryHandler(MethodUpdateConfig, DungeonServiceServer.UpdateConfig)},
		{MethodName: "ClearBaseRooms", Handler: unaryHandler(MethodClearBaseRooms, DungeonServiceServer.ClearBaseRooms)},
		{MethodName: "BaseRooms", Handler: unaryHandler(MethodBaseRooms, DungeonServiceServer.BaseRooms)},
		{MethodName: "GetArchived", Handler: unaryHandler(MethodGetArchived, DungeonServiceServer.GetArchived)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dungeon/v1/dungeon.proto",
}

// RegisterDungeonServiceServer registers srv on s.
func RegisterDungeonServiceServer(s grpc.ServiceRegistrar, srv DungeonServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Register registers srv and a standard health service on s, with both the
// overall server and ServiceName reported as SERVING.
//
// Postcondition: Returns the health server so callers can flip status on
// shutdown.
func Register(s grpc.ServiceRegistrar, srv DungeonServiceServer) *health.Server {
	RegisterDungeonServiceServer(s, srv)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return hs
}

// Client is a typed client for the dungeon service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
//
// Precondition: cc must be non-nil.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate builds a dungeon on the server.
func (c *Client) Generate(ctx context.Context, in *GenerateRequest, opts ...grpc.CallOption) (*GenerateResponse, error) {
	return invoke[GenerateResponse](ctx, c, MethodGenerate, in, opts)
}

// GetConfig returns the server's generator configuration.
func (c *Client) GetConfig(ctx context.Context, opts ...grpc.CallOption) (*ConfigResponse, error) {
	return invoke[ConfigResponse](ctx, c, MethodGetConfig, &Empty{}, opts)
}

// UpdateConfig merges a patch into the server's configuration.
func (c *Client) UpdateConfig(ctx context.Context, in *UpdateConfigRequest, opts ...grpc.CallOption) (*ConfigResponse, error) {
	return invoke[ConfigResponse](ctx, c, MethodUpdateConfig, in, opts)
}

// ClearBaseRooms drops the server's cached base layout.
func (c *Client) ClearBaseRooms(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodClearBaseRooms, &Empty{}, opts)
	return err
}

// BaseRooms reports the server's cached base layout.
func (c *Client) BaseRooms(ctx context.Context, opts ...grpc.CallOption) (*BaseRoomsResponse, error) {
	return invoke[BaseRoomsResponse](ctx, c, MethodBaseRooms, &Empty{}, opts)
}

// GetArchived fetches an archived dungeon.
func (c *Client) GetArchived(ctx context.Context, in *GetArchivedRequest, opts ...grpc.CallOption) (*ArchivedResponse, error) {
	return invoke[ArchivedResponse](ctx, c, MethodGetArchived, in, opts)
}
