package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"courtside_server/routes"
	"courtside_server/services"
	"courtside_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Pick the store backend. DynamoDB in production, in-memory for
	// local development and demos.
	var store services.Store
	if os.Getenv("STORE_BACKEND") == "memory" {
		log.Println("Using in-memory store")
		store = services.NewMemoryStore()
	} else {
		log.Println("Initializing DynamoDB client...")
		dynamoClient := services.InitializeDynamoDBClient()
		store = &services.DynamoStore{Dynamo: &services.DynamoService{Client: dynamoClient}}
		log.Println("DynamoDB client initialized.")
	}

	// Initialize the Socket.IO server used for notification push
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize Services
	rosterService := &services.RosterService{Store: store, Push: socket.NewPusher(socketServer)}
	eventService := &services.EventService{Store: store}
	notificationService := &services.NotificationService{Store: store}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Courtside")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Mount the Socket.IO endpoint
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterEventRoutes(r, eventService)
	routes.RegisterRosterRoutes(r, rosterService)
	routes.RegisterPairingRoutes(r, rosterService)
	routes.RegisterNotificationRoutes(r, notificationService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
