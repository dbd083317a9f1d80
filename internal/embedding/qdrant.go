package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantStore keeps vectors in Qdrant, one collection per record kind.
// Upserts replace the whole point, preserving last-write-wins semantics.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	prefix      string

	mu      sync.Mutex
	ensured map[string]bool
}

// NewQdrantStore creates a Store connected to Qdrant at the given gRPC address.
// Collections are named "<prefix>_candidates" and "<prefix>_jobs".
func NewQdrantStore(addr, prefix string) (*QdrantStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to dial qdrant %s: %w", addr, err)
	}
	return &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		prefix:      prefix,
		ensured:     make(map[string]bool),
	}, nil
}

// Close closes the underlying gRPC connection
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

func (s *QdrantStore) collection(kind string) string {
	return fmt.Sprintf("%s_%ss", s.prefix, kind)
}

// ensureCollection creates the collection for a kind if it doesn't exist.
func (s *QdrantStore) ensureCollection(ctx context.Context, name string, dims int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured[name] {
		return nil
	}

	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == name {
			s.ensured[name] = true
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	s.ensured[name] = true
	return nil
}

// Get returns the stored vector for a record, or nil if absent
func (s *QdrantStore) Get(ctx context.Context, kind string, recordID uuid.UUID) ([]float32, error) {
	resp, err := s.points.Get(ctx, &pb.GetPoints{
		CollectionName: s.collection(kind),
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: recordID.String()}},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		// A missing collection means nothing was ever stored for this kind.
		return nil, nil
	}

	result := resp.GetResult()
	if len(result) == 0 {
		return nil, nil
	}
	vec := result[0].GetVectors().GetVector()
	if vec == nil || len(vec.GetData()) == 0 {
		return nil, nil
	}
	return vec.GetData(), nil
}

// Put stores the full vector for a record, replacing any previous one
func (s *QdrantStore) Put(ctx context.Context, kind string, recordID uuid.UUID, vector []float32) error {
	name := s.collection(kind)
	if err := s.ensureCollection(ctx, name, len(vector)); err != nil {
		return err
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: name,
		Wait:           &wait,
		Points: []*pb.PointStruct{
			{
				Id: &pb.PointId{
					PointIdOptions: &pb.PointId_Uuid{Uuid: recordID.String()},
				},
				Vectors: &pb.Vectors{
					VectorsOptions: &pb.Vectors_Vector{
						Vector: &pb.Vector{Data: vector},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert vector for %s %s: %w", kind, recordID, err)
	}
	return nil
}
