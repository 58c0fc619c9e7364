package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	memblob "abrigo-animais/internal/adapters/blob/memory"
	mem "abrigo-animais/internal/adapters/storage/memory"
	pg "abrigo-animais/internal/adapters/storage/postgres"
	"abrigo-animais/internal/domain/adoptions"
	"abrigo-animais/internal/domain/animals"
	"abrigo-animais/internal/domain/contacts"
	"abrigo-animais/internal/domain/donations"
	"abrigo-animais/internal/domain/news"
	"abrigo-animais/internal/domain/shelterevents"
	"abrigo-animais/internal/domain/users"
	"abrigo-animais/internal/middleware"
	"abrigo-animais/internal/notify"
	"abrigo-animais/internal/ports/auth"
	"abrigo-animais/internal/ports/blobstore"
	"abrigo-animais/pkg/token"
)

type Options struct {
	// AuthVerifier pode ser nil (modo dev): X-Debug-User-ID injeta claims.
	AuthVerifier auth.AuthVerifier

	// Tokens assina o login. Obrigatório para as rotas de /auth funcionarem.
	Tokens *token.Service

	// DB opcional: se vier, usa Postgres; se não, in-memory.
	DB *sql.DB

	// Blobs guarda uploads de imagem. Nil cai para o store em memória.
	Blobs blobstore.Store

	// Mail dispara as notificações. Nil desliga o envio (os serviços aceitam).
	Mail *notify.Dispatcher

	// UploadsDir, quando definido, é servido estático em /uploads.
	UploadsDir string

	// AllowedOrigins alimenta o CORS; vazio ou "*" libera geral.
	AllowedOrigins []string

	Log *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Se não te passam DB explícito, tenta pelo ambiente (dev/handoff).
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, using in-memory storage", zap.Error(err))
			}
		}
	}

	var (
		animalRepo   animals.Repository
		adoptionRepo adoptions.Repository
		newsRepo     news.Repository
		contactRepo  contacts.Repository
		donationRepo donations.Repository
		eventRepo    shelterevents.Repository
		userRepo     users.Repository
	)

	if db != nil {
		animalRepo = pg.NewAnimalsRepo(db)
		adoptionRepo = pg.NewAdoptionsRepo(db)
		newsRepo = pg.NewNewsRepo(db)
		contactRepo = pg.NewContactsRepo(db)
		donationRepo = pg.NewDonationsRepo(db)
		eventRepo = pg.NewEventsRepo(db)
		userRepo = pg.NewUsersRepo(db)
	} else {
		animalRepo = mem.NewAnimalRepo()
		adoptionRepo = mem.NewAdoptionRepo()
		newsRepo = mem.NewNewsRepo()
		contactRepo = mem.NewContactRepo()
		donationRepo = mem.NewDonationRepo()
		eventRepo = mem.NewEventRepo()
		userRepo = mem.NewUserRepo()
	}

	blobs := opts.Blobs
	if blobs == nil {
		blobs = memblob.New()
	}

	animalsSvc := animals.NewService(animalRepo, blobs, log)
	adoptionsSvc := adoptions.NewService(adoptionRepo, animalsSvc, opts.Mail, log)
	newsSvc := news.NewService(newsRepo, blobs, log)
	contactsSvc := contacts.NewService(contactRepo, opts.Mail, log)
	donationsSvc := donations.NewService(donationRepo, opts.Mail, log)
	eventsSvc := shelterevents.NewService(eventRepo, opts.Mail, log)
	usersSvc := users.NewService(userRepo, opts.Tokens, log)

	r.Route("/api", func(api chi.Router) {
		animals.RegisterRoutes(api, animalsSvc)
		adoptions.RegisterRoutes(api, adoptionsSvc)
		news.RegisterRoutes(api, newsSvc)
		contacts.RegisterRoutes(api, contactsSvc)
		donations.RegisterRoutes(api, donationsSvc)
		shelterevents.RegisterRoutes(api, eventsSvc)
		users.RegisterRoutes(api, usersSvc)
		if opts.Mail != nil {
			notify.RegisterRoutes(api, opts.Mail)
		}
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
